package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
)

func TestValidateContext(t *testing.T) {
	//nolint:staticcheck // a nil context is the case under test
	if err := validateContext(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("validateContext(nil) error = %v, want %v", err, ErrNilContext)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := validateContext(ctx); err != nil {
		t.Errorf("canceled context should still be valid, got %v", err)
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "agency", wantErr: false},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), "param") {
					t.Errorf("error should name the parameter, got %v", err)
				}
				if !errors.Is(err, common.ErrInvalidInput) {
					t.Errorf("error should wrap ErrInvalidInput, got %v", err)
				}
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	valid := func() *model.HierarchyEntry {
		return &model.HierarchyEntry{ID: "e1", Name: "ANA CRUZ", Rank: model.RankUM, Agency: "North"}
	}
	tests := []struct {
		entry  *model.HierarchyEntry
		name   string
		errMsg string
	}{
		{name: "valid entry", entry: valid()},
		{name: "nil entry", entry: nil, errMsg: "hierarchy entry"},
		{name: "missing ID", entry: func() *model.HierarchyEntry { e := valid(); e.ID = ""; return e }(), errMsg: "missing ID"},
		{name: "missing name", entry: func() *model.HierarchyEntry { e := valid(); e.Name = " "; return e }(), errMsg: "missing name"},
		{name: "missing agency", entry: func() *model.HierarchyEntry { e := valid(); e.Agency = ""; return e }(), errMsg: "missing agency"},
		{name: "unknown rank", entry: func() *model.HierarchyEntry { e := valid(); e.Rank = "CEO"; return e }(), errMsg: "unknown rank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntry(tt.entry)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("validateEntry() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateEntry() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateGoal(t *testing.T) {
	goal := &model.StrategicPlanningGoal{ID: "g1", UserID: "u1", Agency: "North", SubmittedAt: time.Now()}
	if err := validateGoal(goal); err != nil {
		t.Errorf("validateGoal() unexpected error = %v", err)
	}

	goal.SubmittedAt = time.Time{}
	if err := validateGoal(goal); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("validateGoal() error = %v, want %v", err, ErrInvalidGoal)
	}
}

func TestValidateUser(t *testing.T) {
	user := &model.User{ID: "u1", Name: "Ana", Role: model.RoleStaff}
	if err := validateUser(user); err != nil {
		t.Errorf("validateUser() unexpected error = %v", err)
	}

	user.Role = "owner"
	if err := validateUser(user); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("validateUser() error = %v, want %v", err, ErrInvalidUser)
	}
}
