package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/powerplant/api/solve"
	"github.com/kilianp07/powerplant/config"
	"github.com/kilianp07/powerplant/core/dispatch"
	"github.com/kilianp07/powerplant/pkg/export"
)

var (
	problemPath  string
	outputFormat string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute the production plan of a request payload",
	Args:  cobra.NoArgs,
	RunE:  solveFile,
}

func init() {
	solveCmd.Flags().StringVarP(&problemPath, "file", "f", "", "request payload (json or yaml), - for stdin")
	solveCmd.Flags().StringVar(&outputFormat, "format", "json", "output format: json or csv")
	_ = solveCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(solveCmd)
}

func readRequest(path string, stdin io.Reader) (solve.Request, error) {
	var req solve.Request
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &req)
	default:
		// YAML is a superset of JSON, which covers stdin too.
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return req, fmt.Errorf("decode %s: %w", path, err)
	}
	return req, nil
}

func solveFile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	req, err := readRequest(problemPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	problem, err := req.ToProblem()
	if err != nil {
		return err
	}
	plan, err := dispatch.NewSolver(cfg.Solver).Solve(problem)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		return export.WriteJSON(out, plan)
	case "csv":
		return export.WriteCSV(out, plan)
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}
