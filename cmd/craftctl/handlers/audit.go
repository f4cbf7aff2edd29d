package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Audit handles the audit command, printing the most recent operations
// newest first.
func Audit(ctx context.Context, configPath string, limit int) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	entries, err := env.store.List(ctx, limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		target := "-"
		if e.TargetID != nil {
			target = strconv.Itoa(*e.TargetID)
		}
		rows = append(rows, []string{
			e.CreatedAt.Local().Format(time.DateTime),
			string(e.Action),
			string(e.Status),
			strconv.Itoa(e.SourceID),
			target,
			e.TargetName,
			e.Detail,
		})
	}

	fmt.Fprint(stdout, env.printer.Table(
		[]string{"WHEN", "ACTION", "STATUS", "SOURCE", "TARGET", "NAME", "DETAIL"},
		rows,
	))
	return nil
}
