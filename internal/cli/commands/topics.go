package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewTopicsCommand creates the topics command.
func NewTopicsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Aliases: []string{"ls"},
		Short:   "List the SQL topics",
		Long: `List every topic in display order.

Quiz topics come with a challenge whose answer is checked when you run
your own query. Topics marked with "+Orders" get a second table joined to
Customers.`,
		Example: `  sqlclass topics
  sqlclass topics -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTopics(NewCommandContext(cmd))
		},
	}
}

func runTopics(c *CommandContext) error {
	r := c.Renderer
	topics := catalog.Topics()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(topics)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Topics"))
		r.Println()
		for _, t := range topics {
			r.Printf("- **%s**%s\n", t.ID, topicTags(t))
		}
		return nil
	}

	s := r.Styles()
	r.Header(1, "Topics")
	for _, t := range topics {
		r.Printf("  %s %s\n", s.Key.Render(fmt.Sprintf("%-16s", t.ID)), s.Muted.Render(topicTags(t)))
	}
	r.Println()
	r.Muted(fmt.Sprintf("%d topics. Run 'sqlclass show <topic>' to start one.", len(topics)))
	return nil
}

func topicTags(t catalog.Topic) string {
	tags := ""
	if t.MultiTable {
		tags += " +Orders"
	}
	if t.Quiz {
		tags += " quiz"
	}
	return tags
}
