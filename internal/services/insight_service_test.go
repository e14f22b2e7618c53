package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInsightResponse(t *testing.T) {
	title, summary := parseInsightResponse(`Title: A steady week
Summary: You completed most of your scheduled items. Keep it up.`)
	assert.Equal(t, "A steady week", title)
	assert.Equal(t, "You completed most of your scheduled items. Keep it up.", summary)
}

func TestParseInsightResponseStripsCodeFences(t *testing.T) {
	title, summary := parseInsightResponse("```\nTitle: Week in review\nSummary: Solid adherence overall.\n```")
	assert.Equal(t, "Week in review", title)
	assert.Equal(t, "Solid adherence overall.", summary)
}

func TestParseInsightResponseMultilineSummary(t *testing.T) {
	_, summary := parseInsightResponse(`Title: Progress
Summary: First sentence.
Second sentence continues here.`)
	assert.Equal(t, "First sentence. Second sentence continues here.", summary)
}

func TestParseInsightResponseMissingSections(t *testing.T) {
	title, summary := parseInsightResponse("Some unstructured model output.")
	assert.Empty(t, title)
	assert.Empty(t, summary)
}

func TestContainsDangerousPhrase(t *testing.T) {
	assert.True(t, containsDangerousPhrase("You should STOP TAKING your medication"))
	assert.True(t, containsDangerousPhrase("maybe double your dose tonight"))
	assert.False(t, containsDangerousPhrase("Keep taking your medication as prescribed and consult your doctor."))
}
