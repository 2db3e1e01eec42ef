package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/models"
	"github.com/balkashynov/ssp/internal/planner"
)

// Match scores, highest wins
const (
	matchContains = iota + 1
	matchSuffix
	matchPrefix
	matchExact
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks across all fields",
	Long: `Search tasks with ranked matching:
- Exact match (highest priority)
- Prefix match
- Suffix match
- Contains match (lowest priority)

Search is case insensitive and covers title, subject, notes, priority and deadline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		tasks := searchTasks(p.Tasks(), query)
		if limit > 0 && len(tasks) > limit {
			tasks = tasks[:limit]
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return renderSearchJSON(cmd.OutOrStdout(), tasks, query)
		}
		renderSearchResults(cmd.OutOrStdout(), tasks, query)
		return nil
	}),
}

// searchTasks returns tasks matching query, best match first
func searchTasks(tasks []models.Task, query string) []models.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	type scored struct {
		task  models.Task
		score int
	}
	var hits []scored
	for _, t := range tasks {
		best := 0
		for _, field := range []string{t.Title, t.Subject, t.Notes, string(t.Priority), t.Deadline} {
			if s := matchScore(strings.ToLower(field), query); s > best {
				best = s
			}
		}
		if best > 0 {
			hits = append(hits, scored{task: t, score: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]models.Task, len(hits))
	for i, h := range hits {
		out[i] = h.task
	}
	return out
}

func matchScore(field, query string) int {
	switch {
	case field == "":
		return 0
	case field == query:
		return matchExact
	case strings.HasPrefix(field, query):
		return matchPrefix
	case strings.HasSuffix(field, query):
		return matchSuffix
	case strings.Contains(field, query):
		return matchContains
	}
	return 0
}

// renderSearchJSON outputs search results as JSON
func renderSearchJSON(w io.Writer, tasks []models.Task, query string) error {
	type searchResult struct {
		Query string        `json:"query"`
		Count int           `json:"count"`
		Tasks []models.Task `json:"tasks"`
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(searchResult{Query: query, Count: len(tasks), Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// renderSearchResults outputs search results as a table
func renderSearchResults(w io.Writer, tasks []models.Task, query string) {
	fmt.Fprintf(w, "Search results for '%s' (%d found):\n", query, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found matching your search.")
		return
	}
	fmt.Fprintln(w)
	renderTaskTable(w, tasks)
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
