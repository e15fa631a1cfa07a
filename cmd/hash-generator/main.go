// Command hash-generator prints bcrypt digests for seeding databases and
// building test fixtures. Passwords come from the arguments, or one per line
// on stdin when no arguments are given.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/service/auth"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const costKey = "auth.bcrypt_cost"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("hash-generator", pflag.ContinueOnError)
	flags.Int("cost", 10, "bcrypt cost (defaults to FLASHDECK_AUTH_BCRYPT_COST)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cost, err := resolveCost(flags)
	if err != nil {
		return err
	}
	hasher := auth.NewBcryptHasher(cost)

	passwords := flags.Args()
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	for _, password := range passwords {
		digest, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintln(stdout, digest)
	}
	return nil
}

// resolveCost reads the cost with the usual precedence: flag, then
// environment, then the config default.
func resolveCost(flags *pflag.FlagSet) (int, error) {
	v := viper.New()
	v.SetDefault(costKey, 10)
	if err := v.BindEnv(costKey, config.EnvPrefix+"_AUTH_BCRYPT_COST"); err != nil {
		return 0, err
	}
	if err := v.BindPFlag(costKey, flags.Lookup("cost")); err != nil {
		return 0, err
	}

	cost := v.GetInt(costKey)
	if cost < 4 || cost > 31 {
		return 0, fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", cost)
	}
	return cost, nil
}
