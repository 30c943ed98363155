package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"testcase-generator/internal/client"
	"testcase-generator/internal/domain"
)

func newGenerateCmd(a *app) *cobra.Command {
	var file, name string
	var save bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases for code read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readCode(a, file)
			if err != nil {
				return err
			}

			gen, err := a.client.Generate(cmd.Context(), client.GenerateRequest{
				Code:         code,
				Save:         save,
				FunctionName: name,
			})
			if err != nil {
				return err
			}

			a.printf("Language: %s\n", gen.Language)
			for i, raw := range gen.TestCases {
				printGenerated(a, i+1, raw)
			}
			switch {
			case gen.Saved != nil:
				a.printf("\nSaved as %s (%s)\n", gen.Saved.ID, gen.Saved.FunctionName)
			case save && len(gen.TestCases) == 0:
				a.printf("\nNo test cases to save.\n")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read code from this file instead of stdin")
	cmd.Flags().BoolVar(&save, "save", false, "save the generated cases")
	cmd.Flags().StringVar(&name, "name", "", "function name used when saving")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your saved test cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases, err := a.client.ListTestCases(cmd.Context())
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				a.printf("No test cases yet.\n")
				return nil
			}
			for _, tc := range cases {
				printTestCase(a, tc)
			}
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var name, input, expected, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a test case; --input and --expected take JSON values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := jsonFlag("input", input)
			if err != nil {
				return err
			}
			out, err := jsonFlag("expected", expected)
			if err != nil {
				return err
			}

			tc, err := a.client.CreateTestCase(cmd.Context(), client.CreateTestCase{
				FunctionName:   name,
				Input:          in,
				ExpectedOutput: out,
				Description:    description,
			})
			if err != nil {
				return err
			}
			a.printf("Created %s\n", tc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "function name")
	cmd.Flags().StringVar(&input, "input", "", "input as JSON")
	cmd.Flags().StringVar(&expected, "expected", "", "expected output as JSON")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var name, input, expected, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a saved test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateTestCase
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.FunctionName = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("input") {
				raw, err := jsonFlag("input", input)
				if err != nil {
					return err
				}
				req.Input = raw
			}
			if flags.Changed("expected") {
				raw, err := jsonFlag("expected", expected)
				if err != nil {
					return err
				}
				req.ExpectedOutput = raw
			}

			tc, err := a.client.UpdateTestCase(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			printTestCase(a, *tc)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "function name")
	cmd.Flags().StringVar(&input, "input", "", "input as JSON")
	cmd.Flags().StringVar(&expected, "expected", "", "expected output as JSON")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteTestCase(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload all your test cases as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := a.client.Export(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Exported %d test cases to %s\nDownload: %s\n", exp.Count, exp.Location, exp.URL)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your previous exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			objects, err := a.client.ListExports(cmd.Context())
			if err != nil {
				return err
			}
			for _, obj := range objects {
				a.printf("%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "delete",
		Short: "Delete all your exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.DeleteExports(cmd.Context()); err != nil {
				return err
			}
			a.printf("Exports deleted.\n")
			return nil
		},
	})
	return cmd
}

func readCode(a *app, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func jsonFlag(name, value string) (json.RawMessage, error) {
	if value == "" {
		return nil, nil
	}
	if !json.Valid([]byte(value)) {
		return nil, fmt.Errorf("--%s must be a JSON value, e.g. '[1, 2]' or '\"text\"'", name)
	}
	return json.RawMessage(value), nil
}

func printTestCase(a *app, tc client.TestCase) {
	a.printf("%s  %s\n  input:    %s\n  expected: %s\n", tc.ID, tc.FunctionName, tc.Input, tc.ExpectedOutput)
	if tc.Description != "" {
		a.printf("  %s\n", tc.Description)
	}
}

// printGenerated shows a case field by field, or as indented JSON when the
// model returned something other than the expected object.
func printGenerated(a *app, n int, raw json.RawMessage) {
	var fields map[string]json.RawMessage
	var gc domain.GeneratedCase
	if json.Unmarshal(raw, &fields) != nil || fields["input"] == nil || json.Unmarshal(raw, &gc) != nil {
		a.printf("\n#%d\n%s\n", n, indent(raw))
		return
	}
	a.printf("\n#%d %s\n  input:    %s\n  expected: %s\n", n, gc.Description, compact(gc.Input), compact(gc.ExpectedOutput))
}

func compact(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

func indent(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
