package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/budget/config"
)

// ExtensionPrefix prefixes the name of external commands: "budgetctl foo" runs "budgetctl-foo".
const ExtensionPrefix = "budgetctl-"

// EnvVerbose tells an extension that -v was given.
const EnvVerbose = "BUDGET_VERBOSE"

// RunExtension attempts to find and execute an external budgetctl-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension gets the resolved settings in its environment, so that it
// talks to the same API with the same session.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cfg, err := settings()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, config.EnvAPIURL+"="+cfg.API.URL)
	cmd.Env = append(cmd.Env, config.EnvTokenFile+"="+cfg.TokenFile)
	cmd.Env = append(cmd.Env, config.EnvTimeout+"="+cfg.API.Timeout.String())
	cmd.Env = append(cmd.Env, config.EnvLogLevel+"="+cfg.Logging.Level)
	if cfg.Currency != "" {
		cmd.Env = append(cmd.Env, config.EnvCurrency+"="+cfg.Currency.String())
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
