package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"a68/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an " + config.FileName + " project file",
	Long: `Initialize a project by writing ` + config.FileName + ` with the default
compiler options and a hello-world program (hello.a68). If [path] is omitted,
initializes the current directory; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing "+config.FileName)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	return initProject(cmd.OutOrStdout(), target, force)
}

// initProject writes the project file and, when absent, a sample program.
func initProject(out io.Writer, target string, force bool) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	// Ensure directory exists
	if st, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", abs, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", abs)
	}

	confPath := filepath.Join(abs, config.FileName)
	if _, err := os.Stat(confPath); err == nil && !force {
		return fmt.Errorf("project already initialized: %s exists", confPath)
	}
	if err := os.WriteFile(confPath, []byte(config.DefaultFile()), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	mainPath := filepath.Join(abs, "hello.a68")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(helloProgram), 0o600); err != nil {
			return fmt.Errorf("failed to write hello.a68: %w", err)
		}
		createdMain = true
	}

	fmt.Fprintf(out, "Initialized a68 project in %s\n", abs)
	fmt.Fprintf(out, "  - %s\n", config.FileName)
	if createdMain {
		fmt.Fprintln(out, "  - hello.a68")
	} else {
		fmt.Fprintln(out, "  - hello.a68 (existing)")
	}
	return nil
}

const helloProgram = `BEGIN
  print (("Hello, world!", newline))
END
`
