package entities

import (
	"encoding/json"
	"fmt"
)

// PersonaProfile is the allow-listed slice of a stored user persona that may
// be serialized into a prompt. Decoding the raw persona into this closed
// struct drops everything else, so a new sensitive field added to the stored
// persona can never leak into a completion request.
type PersonaProfile struct {
	UserProfile struct {
		PersonalInfo struct {
			FirstName  string `json:"firstName,omitempty"`
			Gender     string `json:"gender,omitempty"`
			Location   string `json:"location,omitempty"`
			Occupation string `json:"occupation,omitempty"`
		} `json:"personalInfo"`
		PersonalityProfile struct {
			Interests          []string `json:"interests,omitempty"`
			Values             []string `json:"values,omitempty"`
			CommunicationStyle string   `json:"communicationStyle,omitempty"`
			RelationshipGoals  string   `json:"relationshipGoals,omitempty"`
			LoveLanguages      []string `json:"loveLanguages,omitempty"`
		} `json:"personalityProfile"`
	} `json:"userProfile"`
}

// RedactPersona reduces a raw user_persona document to its allow-listed
// fields and returns the serialized result.
func RedactPersona(raw []byte) (string, error) {
	var p PersonaProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("decode persona: %w", err)
	}
	out, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode persona: %w", err)
	}
	return string(out), nil
}

// UserMetadata carries the profile facts the matchmaker persona may reference.
// Date of birth and profile images are deliberately not part of this struct.
type UserMetadata struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Height    string `json:"height"`
	Religion  string `json:"religion"`
	Hometown  string `json:"hometown"`
	WorkExp   string `json:"work_exp"`
	Education string `json:"education"`
}

// UserContext is the redacted persona plus metadata for one party, both
// pre-serialized for prompt interpolation.
type UserContext struct {
	Persona  string
	Metadata string
}
