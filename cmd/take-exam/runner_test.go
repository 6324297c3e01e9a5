package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/model"
)

func TestValidChoice(t *testing.T) {
	choices := []model.Choice{{Label: "A", Value: "1"}, {Label: "C", Value: "3"}}
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"3", true},
		{"2", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validChoice(choices, tt.value); got != tt.want {
			t.Errorf("validChoice(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := choiceValues(choices); got != "1, 3" {
		t.Errorf("choiceValues = %q", got)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &apiclient.APIError{Status: 404, Message: "Exam not found"}, "Exam not found"},
		{"load error", &attempt.LoadError{ExamID: 5, Err: errors.New("dial tcp: refused")}, "dial tcp: refused"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reason(tt.err); got != tt.want {
				t.Errorf("reason = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInput_Line(t *testing.T) {
	in := newInput(strings.NewReader("  n \ns\n"))
	ctx := context.Background()

	for _, want := range []string{"n", "s"} {
		got, ok := in.line(ctx)
		if !ok || got != want {
			t.Fatalf("line = %q, %v; want %q", got, ok, want)
		}
	}
	if _, ok := in.line(ctx); ok {
		t.Fatal("expected closed input")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, ok := newInput(strings.NewReader("")).line(cancelled); ok {
		t.Fatal("expected cancelled read to report false")
	}
}
