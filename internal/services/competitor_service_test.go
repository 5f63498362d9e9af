package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestCompetitorCreateRequiresName(t *testing.T) {
	s := NewCompetitorService(nil, nil, zap.NewNop())

	_, err := s.Create(context.Background(), uuid.New(), uuid.New(), CreateCompetitorInput{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestCompetitorUpdateRejectsEmptyName(t *testing.T) {
	s := NewCompetitorService(nil, nil, zap.NewNop())

	empty := ""
	_, err := s.Update(context.Background(), uuid.New(), uuid.New(), UpdateCompetitorInput{Name: &empty})
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestStyleUpdateRejectsEmptyName(t *testing.T) {
	s := NewScriptService(nil, nil, nil, zap.NewNop())

	empty := ""
	_, err := s.UpdateStyle(context.Background(), uuid.New(), uuid.New(), UpdateStyleInput{Name: &empty})
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}
