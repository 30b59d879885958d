package transport

import "strings"

// CertificateLog records the subject of every certificate seen while the
// peer's chain was verified, in the order they were presented.
type CertificateLog struct {
	names []string
}

func (l *CertificateLog) Append(subject string) {
	l.names = append(l.names, subject)
}

func (l *CertificateLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

func (l *CertificateLog) Names() []string {
	if l == nil || len(l.names) == 0 {
		return nil
	}
	return append([]string(nil), l.names...)
}

// String renders one subject per line, each line terminated by "\n".
func (l *CertificateLog) String() string {
	if l == nil {
		return ""
	}
	var sb strings.Builder
	for _, n := range l.names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}
	return sb.String()
}
