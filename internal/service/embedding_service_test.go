package service

import (
	"testing"

	"idea-board-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmbeddingInput(t *testing.T) {
	idea := &entity.Idea{
		Title:       "Dark mode",
		ProblemText: "The dashboard is blinding at night.",
	}

	input := buildEmbeddingInput(idea)
	assert.Equal(t, "Idea Title: Dark mode\n\nProblem: The dashboard is blinding at night.", input)
}
