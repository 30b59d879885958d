//go:build !unix

package transport

func Describe(err error) string {
	return describeCommon(err)
}
