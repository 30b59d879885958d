package dialer

import (
	"crypto/tls"
	"crypto/x509"
	"errors"

	"github.com/frankli0324/go-httpc/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/net/idna"
)

// CertificateError is returned from the handshake when an [Inspector]
// declined a peer certificate.
type CertificateError struct {
	Subject     string
	Preverified bool
	Err         error // chain verification error, nil if the chain verified
}

func (e *CertificateError) Error() string {
	if e.Err != nil {
		return "certificate rejected: " + e.Subject + ": " + e.Err.Error()
	}
	return "certificate rejected: " + e.Subject
}

func (e *CertificateError) Unwrap() error {
	return e.Err
}

type verifier struct {
	roots   *x509.CertPool
	dnsName string
	inspect Inspector
	certs   *transport.CertificateLog
	log     *zap.Logger
}

// tlsConfig returns a client config whose peer verification runs through
// the dialer's Inspector. The standard verification is turned off because
// it would fail the handshake before the inspector sees the certificates,
// the same chain verification runs in verifyConnection instead.
func (d *CoreDialer) tlsConfig(host string, certs *transport.CertificateLog, log *zap.Logger) *tls.Config {
	config := d.TLSConfig.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	if config.ServerName == "" {
		config.ServerName = host
		if ascii, err := idna.Lookup.ToASCII(host); err == nil {
			config.ServerName = ascii
		}
	}

	v := &verifier{
		roots:   config.RootCAs,
		inspect: d.Inspect,
		certs:   certs,
		log:     log,
	}
	if v.inspect == nil {
		v.inspect = PassThrough
	}
	if d.VerifyHostname {
		v.dnsName = config.ServerName
	}

	config.InsecureSkipVerify = true //nolint:gosec // verified in verifyConnection
	config.VerifyConnection = v.verifyConnection
	return config
}

func (v *verifier) verifyConnection(cs tls.ConnectionState) error {
	chainErr := v.verifyChain(cs.PeerCertificates)
	preverified := chainErr == nil
	if !preverified {
		v.log.Debug("chain verification failed", zap.Error(chainErr))
	}
	for _, cert := range cs.PeerCertificates {
		subject := cert.Subject.String()
		v.certs.Append(subject)
		ok := v.inspect(preverified, subject)
		v.log.Debug("certificate inspected", zap.String("subject", subject), zap.Bool("preverified", preverified), zap.Bool("accepted", ok))
		if !ok {
			return &CertificateError{Subject: subject, Preverified: preverified, Err: chainErr}
		}
	}
	if len(cs.PeerCertificates) == 0 {
		return chainErr
	}
	return nil
}

func (v *verifier) verifyChain(certs []*x509.Certificate) error {
	if len(certs) == 0 {
		return errors.New("tls: server presented no certificates")
	}
	opts := x509.VerifyOptions{
		Roots:         v.roots,
		DNSName:       v.dnsName,
		Intermediates: x509.NewCertPool(),
	}
	for _, cert := range certs[1:] {
		opts.Intermediates.AddCert(cert)
	}
	_, err := certs[0].Verify(opts)
	return err
}
