package proxytrust

import (
	"fmt"
	"reflect"
	"strings"
)

func (c *config) validate() error {
	if strings.TrimSpace(c.ipHeader) == "" {
		return fmt.Errorf("IP header name cannot be empty")
	}
	if strings.TrimSpace(c.hostHeader) == "" {
		return fmt.Errorf("host header name cannot be empty")
	}
	if strings.EqualFold(c.ipHeader, c.hostHeader) {
		return fmt.Errorf("IP header and host header must differ, both are %q", c.ipHeader)
	}
	if c.maxChainLength < 0 {
		return fmt.Errorf("maxChainLength must be >= 0, got %d", c.maxChainLength)
	}
	for i := range c.trustedRange.Min {
		if c.trustedRange.Min[i] > c.trustedRange.Max[i] {
			return fmt.Errorf("trusted range min %v exceeds max %v at octet %d", c.trustedRange.Min, c.trustedRange.Max, i)
		}
	}

	if isNilInterface(c.logger) {
		return fmt.Errorf("logger cannot be nil")
	}
	if !c.useMetricsFactory && isNilInterface(c.metrics) {
		return fmt.Errorf("metrics cannot be nil")
	}
	if c.errorHandler == nil {
		return fmt.Errorf("error handler cannot be nil")
	}
	return nil
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
