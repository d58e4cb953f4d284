package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSheetStatusAliases(t *testing.T) {
	cases := map[string]SheetStatus{
		"draft":      StatusDraft,
		"saved":      StatusSaved,
		"submitted":  StatusSubmitted,
		"approved":   StatusApproved,
		"rejected":   StatusRejected,
		"brouillon":  StatusDraft,
		"sauvegardé": StatusSaved,
		"soumis":     StatusSubmitted,
		"validé":     StatusApproved,
		"rejeté":     StatusRejected,
	}
	for raw, want := range cases {
		got, ok := ParseSheetStatus(raw)
		require.True(t, ok, "expected %q to parse", raw)
		assert.Equal(t, want, got)
	}

	_, ok := ParseSheetStatus("pending")
	assert.False(t, ok)
}

func TestLockPolicy(t *testing.T) {
	assert.False(t, StatusDraft.Locked())
	assert.False(t, StatusSaved.Locked())
	assert.True(t, StatusSubmitted.Locked())
	assert.True(t, StatusApproved.Locked())
	assert.False(t, StatusRejected.Locked())
}

func TestTransitionTableExhaustive(t *testing.T) {
	states := []SheetStatus{StatusDraft, StatusSaved, StatusSubmitted, StatusApproved, StatusRejected}
	actions := []SheetAction{ActionSave, ActionSubmit, ActionApprove, ActionReject, ActionReset}

	type pair struct {
		from   SheetStatus
		action SheetAction
	}
	allowed := map[pair]SheetStatus{
		{StatusDraft, ActionSave}:        StatusSaved,
		{StatusSaved, ActionSave}:        StatusSaved,
		{StatusRejected, ActionSave}:     StatusSaved,
		{StatusDraft, ActionSubmit}:      StatusSubmitted,
		{StatusSaved, ActionSubmit}:      StatusSubmitted,
		{StatusRejected, ActionSubmit}:   StatusSubmitted,
		{StatusSubmitted, ActionApprove}: StatusApproved,
		{StatusSubmitted, ActionReject}:  StatusRejected,
		{StatusDraft, ActionReset}:       StatusDraft,
		{StatusSaved, ActionReset}:       StatusDraft,
		{StatusRejected, ActionReset}:    StatusDraft,
	}

	for _, from := range states {
		for _, action := range actions {
			to, ok := Transition(from, action)
			if want, yes := allowed[pair{from, action}]; yes {
				require.True(t, ok, "transition (%s, %s) should be allowed", from, action)
				assert.Equal(t, want, to)
			} else {
				require.False(t, ok, "transition (%s, %s) should be refused", from, action)
				assert.Equal(t, from, to, "refused transition must not move the state")
			}
		}
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	for _, action := range []SheetAction{ActionSave, ActionSubmit, ActionApprove, ActionReject, ActionReset} {
		_, ok := Transition(StatusApproved, action)
		assert.False(t, ok, "approved sheet must refuse %s", action)
	}
}
