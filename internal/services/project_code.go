package services

import (
	"fmt"
	"io"

	"github.com/terraincognita07/sprintdesk/internal/db"
	"github.com/terraincognita07/sprintdesk/internal/security"
)

const (
	projectCodeBytes       = 4
	maxProjectCodeAttempts = 10
)

type ProjectCodeProbe interface {
	CodeExists(code string) (bool, error)
}

// ProjectCodeGenerator issues 8-character lower-case hex join codes. The
// existence probe only avoids obvious collisions; the unique index on
// projects.project_code is what guarantees uniqueness, so Assign retries when
// the store rejects a code.
type ProjectCodeGenerator struct {
	probe    ProjectCodeProbe
	random   io.Reader
	attempts int
}

func NewProjectCodeGenerator(probe ProjectCodeProbe) *ProjectCodeGenerator {
	return &ProjectCodeGenerator{
		probe:    probe,
		attempts: maxProjectCodeAttempts,
	}
}

// WithRandom replaces the crypto/rand source.
func (generator *ProjectCodeGenerator) WithRandom(random io.Reader) *ProjectCodeGenerator {
	generator.random = random
	return generator
}

func (generator *ProjectCodeGenerator) Generate() (string, error) {
	return generator.Assign(func(string) error { return nil })
}

// Assign draws candidate codes and hands each free one to store. A unique
// violation from store consumes an attempt and draws again; any other error
// is returned as is. All attempts share one budget.
func (generator *ProjectCodeGenerator) Assign(store func(code string) error) (string, error) {
	for attempt := 0; attempt < generator.attempts; attempt++ {
		code, err := security.RandomHex(generator.random, projectCodeBytes)
		if err != nil {
			return "", fmt.Errorf("read random project code: %w", err)
		}

		taken, err := generator.probe.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("probe project code: %w", err)
		}
		if taken {
			continue
		}

		if err := store(code); err != nil {
			if db.IsUniqueViolation(err) {
				continue
			}
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeGenerationFailed
}
