package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/frankli0324/go-httpc/internal"
	"github.com/frankli0324/go-httpc/internal/config"
	"github.com/frankli0324/go-httpc/internal/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "httpc: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	configFile string
	host       string
	service    string
	path       string
	secure     bool
	field      string
	label      string
	headers    []string
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	var o options
	fs := pflag.NewFlagSet("httpc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "config file (yaml, json or toml)")
	fs.StringVar(&o.host, "host", "api.github.com", "server host name")
	fs.StringVar(&o.service, "service", "https", "port number or service name")
	fs.StringVar(&o.path, "path", "/users/IngCr3at1on", "request path")
	fs.BoolVar(&o.secure, "secure", true, "use TLS")
	fs.Bool("verbose", false, "print certificates and response headers")
	fs.StringVar(&o.field, "field", "name", "JSON field to print, empty prints the raw body")
	fs.StringVar(&o.label, "label", "User name", "label printed before the field value")
	fs.StringArrayVar(&o.headers, "header", []string{
		"Accept: application/vnd.github.v3+json",
		"User-Agent: Irrational HTTPC example",
	}, "request header line, repeatable")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &o, fs, nil
}

// buildRequest renders a GET request asking the server to close the
// connection after responding.
func buildRequest(host, path string, headers []string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&sb, "Host: %s\r\n", host)
	for _, h := range headers {
		sb.WriteString(h)
		sb.WriteString("\r\n")
	}
	sb.WriteString("Connection: close\r\n\r\n")
	return []byte(sb.String())
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configFile, fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewTo(stderr, cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	client, err := internal.NewClient(cfg, log)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}
	client.UseOutput(stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	target := internal.Target{Host: opts.host, Service: opts.service, Secure: opts.secure}
	request := buildRequest(opts.host, opts.path, opts.headers)
	log.Debug("sending request", zap.String("host", opts.host), zap.String("path", opts.path), zap.Bool("secure", opts.secure))

	if opts.field == "" {
		body, err := client.ReadString(ctx, target, request)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, body)
		return nil
	}

	var obj map[string]interface{}
	if err := client.ReadJSON(ctx, target, request, &obj); err != nil {
		return err
	}
	if v, ok := obj[opts.field].(string); ok && v != "" {
		fmt.Fprintf(stdout, "%s: %s\n", opts.label, v)
	}
	return nil
}
