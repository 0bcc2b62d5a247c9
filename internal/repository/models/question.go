package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON document in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// Store nil slices as an empty JSON array string "[]"
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return fmt.Errorf("StringSlice Scan: unsupported type %T", value)
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Question is the DB model for a trivia question. Incorrect answers and
// validation feedback live in CLOB columns as JSON. ai_generated is a
// NUMBER(1) flag since Oracle has no boolean column type.
type Question struct {
	ID                 string       `db:"id"`
	Content            string       `db:"content"`
	Category           string       `db:"category"`
	Difficulty         string       `db:"difficulty"`
	CorrectAnswer      string       `db:"correct_answer"`
	IncorrectAnswers   StringSlice  `db:"incorrect_answers"`
	ValidationStatus   string       `db:"validation_status"`
	ValidationFeedback string       `db:"validation_feedback"`
	AIGenerated        int          `db:"ai_generated"`
	UsageCount         int          `db:"usage_count"`
	LastUsed           sql.NullTime `db:"last_used"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
	DeletedAt          sql.NullTime `db:"deleted_at"`
}

func (Question) TableName() string {
	return "questions"
}
