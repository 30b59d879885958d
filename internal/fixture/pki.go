// Package fixture provides throwaway certificates and one-shot servers for
// exercising the client end to end.
package fixture

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	RootName = "httpc root"
	LeafName = "httpc leaf"
)

// PKI is a root CA and a leaf certificate it signed, valid for 127.0.0.1
// and localhost.
type PKI struct {
	Root *x509.Certificate
	Pool *x509.CertPool // contains only Root

	// Server presents the chain [leaf, root].
	Server tls.Certificate
}

func NewPKI() (*PKI, error) {
	var (
		rootKey, leafKey *ecdsa.PrivateKey
		rootDER, leafDER []byte
		root             *x509.Certificate
		err              error
	)

	now := time.Now()
	rootTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: RootName},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	leafTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: LeafName},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		DNSNames:     []string{"localhost"},
	}

	rootKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err == nil {
		rootDER, err = x509.CreateCertificate(rand.Reader, rootTemplate, rootTemplate, &rootKey.PublicKey, rootKey)
	}
	if err == nil {
		root, err = x509.ParseCertificate(rootDER)
	}
	if err == nil {
		leafKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}
	if err == nil {
		leafDER, err = x509.CreateCertificate(rand.Reader, leafTemplate, root, &leafKey.PublicKey, rootKey)
	}
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	pool.AddCert(root)
	return &PKI{
		Root: root,
		Pool: pool,
		Server: tls.Certificate{
			Certificate: [][]byte{leafDER, rootDER},
			PrivateKey:  leafKey,
		},
	}, nil
}

// ServerConfig returns a fresh server side config presenting p.Server.
func (p *PKI) ServerConfig() *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{p.Server},
		MinVersion:   tls.VersionTLS12,
	}
}

// WriteRootFile writes the root certificate as PEM into dir and returns
// the file name.
func (p *PKI) WriteRootFile(dir string) (string, error) {
	name := filepath.Join(dir, "root.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: p.Root.Raw})
	return name, os.WriteFile(name, data, 0o600)
}
