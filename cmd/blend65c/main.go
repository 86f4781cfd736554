package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blendsdk/blend65-sub005/pkg/codegen"
	"github.com/blendsdk/blend65-sub005/pkg/config"
	"github.com/blendsdk/blend65-sub005/pkg/ilio"
	"github.com/blendsdk/blend65-sub005/pkg/ssa"
	"github.com/blendsdk/blend65-sub005/pkg/target"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blend65c",
		Short: "Blend65 compiler middle-end/backend — IL to 6502 assembly",
	}

	// build command
	var projectFile string
	var outFile string
	var skipVerification bool

	buildCmd := &cobra.Command{
		Use:   "build [module.ilmod]",
		Short: "Lower an IL module through SSA and code generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ilio.ReadModule(args[0])
			if err != nil {
				return err
			}

			doc := &config.Document{}
			if projectFile != "" {
				doc, err = config.Load(projectFile)
				if err != nil {
					return err
				}
			}
			opts := doc.CompilerOptions.ToCodegenOptions()
			if outFile != "" {
				opts.OutFile = outFile
			}

			for _, fn := range m.Functions {
				if _, err := ssa.Transform(fn, ssa.TransformOptions{SkipVerification: skipVerification}); err != nil {
					return fmt.Errorf("ssa: function %s: %w", fn.Name, err)
				}
			}

			result, err := codegen.Generate(m, opts, codegen.NewACMEInvoker())
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}

			dest := opts.OutFile
			if dest == "" {
				dest = m.SourceName + ".asm"
			}
			if err := os.WriteFile(dest, []byte(result.Assembly), 0o644); err != nil {
				return fmt.Errorf("blend65c: write %s: %w", dest, err)
			}
			fmt.Printf("wrote %s (%d bytes code, %d bytes data, %d warnings)\n",
				dest, result.Stats.CodeSize, result.Stats.DataSize, len(result.Warnings))

			if len(result.Binary) > 0 {
				prgPath := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".prg"
				if err := os.WriteFile(prgPath, result.Binary, 0o644); err != nil {
					return fmt.Errorf("blend65c: write %s: %w", prgPath, err)
				}
				fmt.Printf("wrote %s (%d bytes)\n", prgPath, len(result.Binary))
			}
			return nil
		},
	}
	buildCmd.Flags().StringVarP(&projectFile, "config", "c", "", "Project configuration JSON file")
	buildCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output assembly file path (overrides config)")
	buildCmd.Flags().BoolVar(&skipVerification, "skip-verification", false, "Skip post-SSA register/phi verification")

	// stub command
	var stubLoad uint16
	var stubSys uint16
	var stubLine int

	stubCmd := &cobra.Command{
		Use:   "stub",
		Short: "Print the bytes of a BASIC autostart stub",
		RunE: func(cmd *cobra.Command, args []string) error {
			stub, err := codegen.BuildBasicStub(stubLoad, stubLine, int(stubSys))
			if err != nil {
				return err
			}
			for i, b := range stub {
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Printf("%02X", b)
			}
			fmt.Println()
			return nil
		},
	}
	stubCmd.Flags().Uint16Var(&stubLoad, "load", 0x0801, "Load address")
	stubCmd.Flags().Uint16Var(&stubSys, "sys", 0xC000, "SYS target address")
	stubCmd.Flags().IntVar(&stubLine, "line", 10, "BASIC line number")

	// symbols command
	symbolsCmd := &cobra.Command{
		Use:   "symbols [module.ilmod]",
		Short: "Build a module and print its VICE label table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ilio.ReadModule(args[0])
			if err != nil {
				return err
			}
			for _, fn := range m.Functions {
				if _, err := ssa.Transform(fn, ssa.TransformOptions{}); err != nil {
					return fmt.Errorf("ssa: function %s: %w", fn.Name, err)
				}
			}
			opts := codegen.Options{Target: target.C64, Debug: codegen.DebugVICE}
			result, err := codegen.Generate(m, opts, nil)
			if err != nil {
				return err
			}
			fmt.Print(result.SymbolFile)
			return nil
		},
	}

	// verify-ssa command
	verifySSACmd := &cobra.Command{
		Use:   "verify-ssa [module.ilmod]",
		Short: "Run the SSA pipeline and report whether the result verifies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ilio.ReadModule(args[0])
			if err != nil {
				return err
			}
			for _, fn := range m.Functions {
				res, err := ssa.Transform(fn, ssa.TransformOptions{})
				if err != nil {
					fmt.Printf("%s: FAIL: %v\n", fn.Name, err)
					continue
				}
				fmt.Printf("%s: OK (%d phi nodes processed)\n", fn.Name, res.Rename.PhisProcessed)
			}
			return nil
		},
	}

	rootCmd.AddCommand(buildCmd, stubCmd, symbolsCmd, verifySSACmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
