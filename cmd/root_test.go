package cmd

import (
	"strings"
	"testing"
)

func TestOutputFlagUsage(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	if flag == nil {
		t.Fatal("output flag not registered")
	}

	for _, format := range []string{"human", "json", "csv"} {
		if !strings.Contains(flag.Usage, format) {
			t.Errorf("output flag usage %q does not mention %s", flag.Usage, format)
		}
	}
}
