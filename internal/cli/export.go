package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/htmlout"
	"github.com/interpretive-systems/rowdiff/internal/lines"
	"github.com/interpretive-systems/rowdiff/internal/session"
	"github.com/interpretive-systems/rowdiff/internal/tui"
)

// rowJSON is the json form of a diffview.Row. Absent indices are -1.
type rowJSON struct {
	Kind      string `json:"kind"`
	Left      int    `json:"left"`
	Right     int    `json:"right"`
	Diff      int    `json:"diff"`
	RightDiff int    `json:"rightDiff"`
	Changed   bool   `json:"changed,omitempty"`
	CtxLeft   int    `json:"ctxLeft"`
	CtxRight  int    `json:"ctxRight"`
	Hunk      int    `json:"hunk"`
}

type rowsJSON struct {
	Mode string    `json:"mode"`
	Rows []rowJSON `json:"rows"`
}

func newRowsCmd(a *app) *cobra.Command {
	var diffFile, format string
	cmd := &cobra.Command{
		Use:   "rows LEFT RIGHT",
		Short: "Print the aligned display rows of two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}
			s, _, err := a.session(args[0], args[1], diffFile)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeRowsJSON(cmd.OutOrStdout(), s)
			}
			return writeRowsText(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&diffFile, "diff", "", "Read the unified diff from FILE instead of running git diff")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text or json)")
	return cmd
}

func writeRowsJSON(w io.Writer, s *session.Session) error {
	out := rowsJSON{Mode: s.Mode().String(), Rows: make([]rowJSON, 0, len(s.Rows()))}
	for _, r := range s.Rows() {
		out.Rows = append(out.Rows, rowJSON{
			Kind:      r.Kind().String(),
			Left:      r.LeftIndex,
			Right:     r.RightIndex,
			Diff:      r.DiffIndex,
			RightDiff: r.RightDiffIndex,
			Changed:   r.Changed,
			CtxLeft:   r.CtxLeftIndex,
			CtxRight:  r.CtxRightIndex,
			Hunk:      r.Hunk,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeRowsText(w io.Writer, s *session.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tKIND\tLEFT\tRIGHT\tDIFF\tHUNK\tTEXT\n")
	for i, l := range s.Lines() {
		r := l.Row
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i, r.Kind(),
			index(r.LeftIndex), index(r.RightIndex), index(r.DiffIndex), index(r.Hunk), rowText(s, r))
	}
	return tw.Flush()
}

func index(i int) string {
	if i == diffview.NoIndex {
		return "-"
	}
	return strconv.Itoa(i)
}

// rowText is the source text of a row, the right side for a replaced pair.
func rowText(s *session.Session, r diffview.Row) string {
	switch {
	case r.HasRight():
		return s.RightLines()[r.RightIndex]
	case r.HasLeft():
		return s.LeftLines()[r.LeftIndex]
	}
	return ""
}

func newHTMLCmd(a *app) *cobra.Command {
	var diffFile, commentsFile, outFile string
	cmd := &cobra.Command{
		Use:   "html LEFT RIGHT",
		Short: "Write the diff of two files as an HTML page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := readComments(commentsFile)
			if err != nil {
				return err
			}
			s, req, err := a.session(args[0], args[1], diffFile)
			if err != nil {
				return err
			}
			resp := highlight.NewWorker().Do(cmd.Context(), *req)
			if resp.Err != nil {
				return fmt.Errorf("highlight: %w", resp.Err)
			}
			if _, err := s.ApplyHighlight(resp); err != nil {
				return err
			}
			opts := htmlout.Options{Title: filepath.Base(args[1]), Style: a.cfg.Style}
			return writeOutput(cmd, outFile, func(w io.Writer) error {
				return htmlout.Write(w, s, comments, opts)
			})
		},
	}
	cmd.Flags().StringVar(&diffFile, "diff", "", "Read the unified diff from FILE instead of running git diff")
	cmd.Flags().StringVar(&commentsFile, "comments", "", "JSON array of review comments to place in the diff")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to FILE instead of stdout")
	return cmd
}

func newHunkCmd(a *app) *cobra.Command {
	var filename, outFile string
	var keep int
	cmd := &cobra.Command{
		Use:   "hunk [FILE]",
		Short: "Render the snippet shown above a review comment as HTML",
		Long:  "Reads a diff hunk from FILE, or stdin without one, and renders its last lines the way a review comment shows them.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				if filename == "" {
					filename = filepath.Base(args[0])
				}
			}
			b, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read hunk: %w", err)
			}
			snip, err := diffview.Snippet(string(b), keep)
			if err != nil {
				return err
			}
			req := highlight.Request{Filename: filename, Left: lines.Join(snip.Left), Right: lines.Join(snip.Right)}
			resp := highlight.NewWorker().Do(cmd.Context(), req)
			if resp.Err != nil {
				return fmt.Errorf("highlight: %w", resp.Err)
			}
			opts := htmlout.Options{Title: filename, Style: a.cfg.Style}
			return writeOutput(cmd, outFile, func(w io.Writer) error {
				return htmlout.WriteSnippet(w, filename, snip, resp.Result, opts)
			})
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "File name used to pick the language (default: FILE)")
	cmd.Flags().IntVar(&keep, "keep", diffview.DefaultSnippetLines, "Lines to keep from the end of the hunk (0 keeps all)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to FILE instead of stdout")
	return cmd
}

// session aligns a file pair in the configured mode.
func (a *app) session(left, right, diffFile string) (*session.Session, *highlight.Request, error) {
	st, err := tui.PairState(tui.Pair{Left: left, Right: right, Diff: diffFile}, a.cfg.Context)
	if err != nil {
		return nil, nil, err
	}
	s := session.New(a.mode())
	req, err := s.Update(st)
	if err != nil {
		return nil, nil, fmt.Errorf("align %s: %w", right, err)
	}
	return s, req, nil
}

func readComments(path string) ([]htmlout.Comment, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var comments []htmlout.Comment
	if err := json.Unmarshal(b, &comments); err != nil {
		return nil, fmt.Errorf("parse comments %s: %w", path, err)
	}
	return comments, nil
}

// writeOutput runs write against path, or the command's stdout for "" or "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
