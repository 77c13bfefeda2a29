// Package catalog holds the fixed set of SQL lessons.
//
// The catalog is read-only and built once at package init. Lookups tolerate
// case differences and treat '-' and '_' as spaces, so "inner-join",
// "Inner_Join" and "INNER JOIN" all name the same topic.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultQuery is the initial text of a learner's query editor.
const DefaultQuery = "SELECT * FROM Customers;"

// Topic is a single lesson entry.
type Topic struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ExampleQuery string `json:"example_query,omitempty"`
	// Quiz topics use ExampleQuery as the expected answer to Challenge.
	Quiz       bool   `json:"quiz"`
	Challenge  string `json:"challenge,omitempty"`
	MultiTable bool   `json:"multi_table"`
}

var (
	topics []Topic
	index  map[string]int
)

func init() {
	topics = builtinTopics()
	index = make(map[string]int, len(topics))
	for i, t := range topics {
		index[normalize(t.ID)] = i
	}
}

func normalize(id string) string {
	id = strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return strings.Join(strings.Fields(cases.Fold().String(id)), " ")
}

// Lookup returns the topic for id.
func Lookup(id string) (Topic, bool) {
	i, ok := index[normalize(id)]
	if !ok {
		return Topic{}, false
	}
	return topics[i], true
}

// Describe returns the description of a topic, or "" if id is unknown.
func Describe(id string) string {
	t, _ := Lookup(id)
	return t.Description
}

// CanonicalQuery returns the example query for a topic. The second result is
// false for unknown topics and topics without an example.
func CanonicalQuery(id string) (string, bool) {
	t, ok := Lookup(id)
	if !ok || t.ExampleQuery == "" {
		return "", false
	}
	return t.ExampleQuery, true
}

// RequiresOrders reports whether a topic needs the Orders table.
func RequiresOrders(id string) bool {
	t, _ := Lookup(id)
	return t.MultiTable
}

// Topics returns all topics in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// IDs returns topic identifiers in display order.
func IDs() []string {
	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	return ids
}
