package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samvad-hq/samvad-rest-facade/internal/app"
	"github.com/samvad-hq/samvad-rest-facade/internal/config"
	"github.com/samvad-hq/samvad-rest-facade/internal/logger"
	"github.com/samvad-hq/samvad-rest-facade/pkg/form"
	"github.com/samvad-hq/samvad-rest-facade/pkg/rest"
)

type callFlags struct {
	method   string
	url      string
	body     string
	form     []string
	query    []string
	headers  []string
	envelope bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "restcall failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("restcall", pflag.ContinueOnError)
	var cf callFlags
	fs.StringVarP(&cf.method, "method", "X", http.MethodGet, "HTTP method (GET or POST)")
	fs.StringVar(&cf.url, "url", "", "target URL")
	fs.StringVarP(&cf.body, "body", "d", "", "JSON body sent as is")
	fs.StringArrayVar(&cf.form, "form", nil, "form field key=value, repeatable")
	fs.StringArrayVarP(&cf.query, "query", "q", nil, "query field key=value, repeatable")
	fs.StringArrayVarP(&cf.headers, "header", "H", nil, `header "Name: value", repeatable`)
	fs.BoolVar(&cf.envelope, "envelope", false, "decode the response as a result envelope and print its data")

	fs.String("log_level", "info", "log level")
	fs.Int64("http_timeout_seconds", 30, "transport timeout in seconds")
	fs.String("alerts_file", "", "alert sinks config file (YAML or JSON)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.NewRuntime(ctx, cfg, log, nil)
	if err != nil {
		log.ErrorObj("failed to initialize runtime", "error", err.Error())
		return err
	}
	defer rt.Close()

	call, err := buildCall(cf)
	if err != nil {
		return err
	}

	var out string
	if cf.envelope {
		raw, callErr := rt.ExecuteEnvelope(ctx, call)
		out, err = string(raw), callErr
	} else {
		out, err = rt.Execute(ctx, call)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, out)
	return nil
}

func buildCall(cf callFlags) (rest.Call, error) {
	if strings.TrimSpace(cf.url) == "" {
		return rest.Call{}, errors.New("--url is required")
	}
	if cf.body != "" && len(cf.form) > 0 {
		return rest.Call{}, errors.New("--body and --form are mutually exclusive")
	}

	call := rest.Call{Method: strings.ToUpper(cf.method), URL: cf.url}

	query, err := parseFields(cf.query)
	if err != nil {
		return rest.Call{}, fmt.Errorf("parse --query: %w", err)
	}
	call.Query = query

	switch {
	case len(cf.form) > 0:
		fields, err := parseFields(cf.form)
		if err != nil {
			return rest.Call{}, fmt.Errorf("parse --form: %w", err)
		}
		call.Body = rest.Form(fields)
	case cf.body != "":
		call.Body = rest.Text(cf.body)
	}

	if len(cf.headers) > 0 {
		call.Headers = http.Header{}
		for _, h := range cf.headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return rest.Call{}, fmt.Errorf("invalid header %q", h)
			}
			call.Headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}
	return call, nil
}

func parseFields(pairs []string) (form.Fields, error) {
	var fields form.Fields
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		fields = fields.Add(k, v)
	}
	return fields, nil
}
