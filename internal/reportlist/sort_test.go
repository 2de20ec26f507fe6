package reportlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reports "github.com/pokereports/pokereports/sdk/go"
)

func ids(items []reports.Report) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ReportID
	}
	return out
}

func TestSortValidDateBeforeInvalidWhenDescending(t *testing.T) {
	items := []reports.Report{
		{ReportID: "bad", Updated: "invalid"},
		{ReportID: "good", Updated: "2024-01-01"},
	}
	assert.Equal(t, []string{"good", "bad"}, ids(Sort(items, Descending)))
	assert.Equal(t, []string{"bad", "good"}, ids(Sort(items, Ascending)))
}

func TestSortDirections(t *testing.T) {
	items := []reports.Report{
		{ReportID: "b", Updated: "2024-01-02"},
		{ReportID: "a", Updated: "2024-01-01"},
		{ReportID: "c", Updated: "2024-01-03T08:00:00Z"},
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids(Sort(items, Descending)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(items, Ascending)))
}

func TestSortDescendingReversedEqualsAscendingForValidDates(t *testing.T) {
	items := []reports.Report{
		{ReportID: "1", Updated: "2023-05-01"},
		{ReportID: "x", Updated: ""},
		{ReportID: "2", Updated: "2024-02-10T10:00:00Z"},
		{ReportID: "3", Updated: "2022-12-31 23:59:59"},
		{ReportID: "y", Updated: "N/A"},
		{ReportID: "4", Updated: "2024-02-10T09:00:00Z"},
	}

	valid := func(list []reports.Report) []string {
		var out []string
		for _, r := range list {
			if _, ok := r.UpdatedAt(); ok {
				out = append(out, r.ReportID)
			}
		}
		return out
	}

	desc := valid(Sort(items, Descending))
	asc := valid(Sort(items, Ascending))
	reversed := make([]string, len(desc))
	for i, id := range desc {
		reversed[len(desc)-1-i] = id
	}
	assert.Equal(t, asc, reversed)
}

func TestSortKeepsOriginalOrderForInvalidPairs(t *testing.T) {
	items := []reports.Report{
		{ReportID: "1", Updated: "nope"},
		{ReportID: "2", Updated: "2024-01-01"},
		{ReportID: "3", Updated: ""},
		{ReportID: "4", Updated: "garbage"},
	}
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(Sort(items, Descending)))
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(Sort(items, Ascending)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	items := []reports.Report{
		{ReportID: "a", Updated: "2024-01-01"},
		{ReportID: "b", Updated: "2024-01-02"},
	}
	_ = Sort(items, Descending)
	assert.Equal(t, []string{"a", "b"}, ids(items))
}

func TestCompareBothInvalidIsZero(t *testing.T) {
	a := reports.Report{Updated: "x"}
	b := reports.Report{Updated: "y"}
	assert.Zero(t, Compare(a, b, Descending))
	assert.Zero(t, Compare(a, b, Ascending))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Ascending, Descending.Toggle())
	assert.Equal(t, Descending, Ascending.Toggle())
	assert.Equal(t, "desc", Descending.String())
}
