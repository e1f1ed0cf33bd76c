package xmain

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// Opts declares flags whose defaults may come from environment variables.
// Flags take precedence over the environment.
type Opts struct {
	Args  []string
	Flags *pflag.FlagSet
	env   *xos.Env
	log   *cmdlog.Logger

	registeredEnvs []string
}

func NewOpts(env *xos.Env, log *cmdlog.Logger, args []string) *Opts {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)
	return &Opts{
		Args:  args,
		Flags: flags,
		env:   env,
		log:   log,
	}
}

// Help lists the flags followed by the environment variables they read.
func (o *Opts) Help() string {
	b := &strings.Builder{}
	o.Flags.SetOutput(b)
	o.Flags.PrintDefaults()
	o.Flags.SetOutput(io.Discard)

	if len(o.registeredEnvs) > 0 {
		b.WriteString("\nYou may persistently set the following as environment variables (flags take precedent):\n")
		for i, e := range o.registeredEnvs {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(b, "- $%s", e)
		}
	}
	return b.String()
}

func (o *Opts) getEnv(k string) string {
	if k == "" {
		return ""
	}
	o.registeredEnvs = append(o.registeredEnvs, k)
	return o.env.Getenv(k)
}

// envDefault replaces def with the parsed value of $envKey when it is set.
func envDefault[T any](o *Opts, envKey string, def T, kind string, parse func(string) (T, error)) (T, error) {
	env := o.getEnv(envKey)
	if env == "" {
		return def, nil
	}
	v, err := parse(env)
	if err != nil {
		return def, fmt.Errorf(`invalid environment variable %s. Expected %s. Found "%s".`, envKey, kind, env)
	}
	return v, nil
}

func (o *Opts) Int64(envKey, flag, shortFlag string, defaultVal int64, usage string) (*int64, error) {
	v, err := envDefault(o, envKey, defaultVal, "int64", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	if err != nil {
		return nil, err
	}
	return o.Flags.Int64P(flag, shortFlag, v, usage), nil
}

func (o *Opts) Float64(envKey, flag, shortFlag string, defaultVal float64, usage string) (*float64, error) {
	v, err := envDefault(o, envKey, defaultVal, "float64", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	if err != nil {
		return nil, err
	}
	return o.Flags.Float64P(flag, shortFlag, v, usage), nil
}

func (o *Opts) String(envKey, flag, shortFlag string, defaultVal, usage string) *string {
	if env := o.getEnv(envKey); env != "" {
		defaultVal = env
	}
	return o.Flags.StringP(flag, shortFlag, defaultVal, usage)
}

// Bool accepts 1, true, 0 and false from the environment.
func (o *Opts) Bool(envKey, flag, shortFlag string, defaultVal bool, usage string) (*bool, error) {
	v, err := envDefault(o, envKey, defaultVal, "bool", parseBoolEnv)
	if err != nil {
		return nil, err
	}
	return o.Flags.BoolP(flag, shortFlag, v, usage), nil
}

func parseBoolEnv(s string) (bool, error) {
	switch s {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("not a bool: %q", s)
	}
}
