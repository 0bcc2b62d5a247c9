package database

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"trivia-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The questions table must accept every status the domain can hand the
// persistence layer, and its default must itself be a domain value.
func TestQuestionsTableAcceptsAllValidationStatuses(t *testing.T) {
	ddl, err := os.ReadFile(filepath.Join("..", "..", "database", "migrations", "000001_create_questions_table.up.sql"))
	require.NoError(t, err)
	sql := string(ddl)

	constraint := regexp.MustCompile(`chk_questions_status CHECK \(validation_status IN \(([^)]*)\)\)`).FindStringSubmatch(sql)
	require.Len(t, constraint, 2, "questions DDL must constrain validation_status")

	statuses := []domain.ValidationStatus{domain.StatusApproved, domain.StatusReviewing, domain.StatusDraft}
	for _, status := range statuses {
		assert.Contains(t, constraint[1], fmt.Sprintf("'%s'", status))
	}

	defaultClause := regexp.MustCompile(`validation_status\s+VARCHAR2\(\d+\)\s+DEFAULT\s+'(\w+)'`).FindStringSubmatch(sql)
	require.Len(t, defaultClause, 2, "validation_status must carry a default")
	assert.Contains(t, constraint[1], fmt.Sprintf("'%s'", defaultClause[1]),
		"the column default must satisfy its own CHECK constraint")
	assert.NotContains(t, sql, "'pending'")
	assert.False(t, strings.Contains(constraint[1], "rejected"),
		"rejected candidates are never persisted")
}
