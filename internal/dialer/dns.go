package dialer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/frankli0324/go-httpc/internal/model"
	"golang.org/x/net/idna"
)

var schemes = map[string]uint16{
	"http": 80, "https": 443,
}

type ResolveConfig struct {
	CustomDNSServer string
	Network         string            // one of "ip4", "ip6", default is "ip"
	StaticHosts     map[string]string // resembles /etc/hosts
}

func (c *ResolveConfig) Clone() *ResolveConfig {
	if c == nil {
		return nil
	}
	hosts := make(map[string]string, len(c.StaticHosts))
	for k, v := range c.StaticHosts {
		hosts[k] = v
	}
	return &ResolveConfig{
		CustomDNSServer: c.CustomDNSServer,
		Network:         c.Network,
		StaticHosts:     hosts,
	}
}

// this type should not be used outside this file.
// prevents non-custom DNS server contexts to iterate through all keys
type dnsServerCtx struct {
	context.Context
	server string
}

var dnsServerCtxKey = &dnsServerCtx{nil, "dns-server"} // non-nil pointer to any object, definitely unique

func (c dnsServerCtx) Value(key interface{}) interface{} {
	if key == dnsServerCtxKey {
		return c.server
	}
	return c.Context.Value(key)
}

var customServerResolver = net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
		if v, ok := ctx.Value(dnsServerCtxKey).(string); ok && v != "" {
			return zeroDialer.DialContext(ctx, network, v)
		}
		return zeroDialer.DialContext(ctx, network, address)
	},
}

// Resolve implements [Resolver]. A nil *ResolveConfig resolves through the
// platform resolver. Static hosts and IP literals skip DNS entirely, other
// names are converted to their ASCII form first.
func (c *ResolveConfig) Resolve(ctx context.Context, host, service string) ([]Endpoint, error) {
	port, err := lookupPort(ctx, service)
	if err != nil {
		return nil, model.NewError(model.ResolveFailure, "resolve service "+service, err)
	}

	name, network, server := host, "ip", ""
	if c != nil {
		if static, ok := c.lookupStatic(host); ok {
			name = static
		}
		if c.Network != "" {
			network = c.Network
		}
		server = c.CustomDNSServer
	}

	if addr, err := netip.ParseAddr(name); err == nil {
		addr = addr.Unmap()
		if !matchNetwork(addr, network) {
			return nil, model.NewError(model.ResolveFailure, "resolve "+host,
				fmt.Errorf("address %s does not match network %s", addr, network))
		}
		return []Endpoint{netip.AddrPortFrom(addr, port)}, nil
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return nil, model.NewError(model.ResolveFailure, "resolve "+host, err)
	}

	var addrs []netip.Addr
	if server == "" {
		addrs, err = net.DefaultResolver.LookupNetIP(ctx, network, ascii)
	} else {
		addrs, err = customServerResolver.LookupNetIP(dnsServerCtx{ctx, server}, network, ascii)
	}
	if err != nil {
		return nil, model.NewError(model.ResolveFailure, "resolve "+host, err)
	}
	if len(addrs) == 0 {
		return nil, model.NewError(model.ResolveFailure, "resolve "+host, errors.New("no endpoints found"))
	}

	eps := make([]Endpoint, 0, len(addrs))
	for _, a := range addrs {
		eps = append(eps, netip.AddrPortFrom(a.Unmap(), port))
	}
	return eps, nil
}

// lookupStatic matches host case-insensitively, configuration loaders
// lowercase map keys.
func (c *ResolveConfig) lookupStatic(host string) (string, bool) {
	if static, ok := c.StaticHosts[host]; ok {
		return static, true
	}
	static, ok := c.StaticHosts[strings.ToLower(host)]
	return static, ok
}

func matchNetwork(addr netip.Addr, network string) bool {
	switch network {
	case "ip4":
		return addr.Is4()
	case "ip6":
		return addr.Is6()
	}
	return true
}

func lookupPort(ctx context.Context, service string) (uint16, error) {
	if p, ok := schemes[service]; ok {
		return p, nil
	}
	if p, err := strconv.ParseUint(service, 10, 16); err == nil {
		return uint16(p), nil
	}
	p, err := net.DefaultResolver.LookupPort(ctx, "tcp", service)
	if err != nil {
		return 0, err
	}
	return uint16(p), nil
}
