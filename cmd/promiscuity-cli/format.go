package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/promiscuity/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// output renders v as JSON unless the quiet format asks for a single value.
// Table rendering is done by the caller.
func output(v any, quietVal string) {
	if flagFmt == "quiet" {
		fmt.Println(quietVal)
		return
	}
	formatJSON(v)
}

func printScores(resp *client.ScoreResponse) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(resp.Results))
		for _, r := range resp.Results {
			rows = append(rows, []string{strconv.Itoa(r.Score), strconv.FormatBool(r.Found)})
		}
		formatTable([]string{"SCORE", "FOUND"}, rows)
		fmt.Printf("\n%s: %d dequeued, %d expanded, %.1fms\n",
			resp.Stats.Algorithm, resp.Stats.Dequeued, resp.Stats.Expanded, resp.Stats.DurationMS)
	case "quiet":
		for _, r := range resp.Results {
			fmt.Println(r.Score)
		}
	default:
		formatJSON(resp)
	}
}

func printPaths(resp *client.PathsResponse) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(resp.Results))
		for i, r := range resp.Results {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(r.Score),
				strings.Join(r.Path.Nodes, " -> "),
			})
		}
		formatTable([]string{"RANK", "SCORE", "PATH"}, rows)
	case "quiet":
		for _, r := range resp.Results {
			fmt.Println(strings.Join(r.Path.Nodes, " "))
		}
	default:
		formatJSON(resp)
	}
}
