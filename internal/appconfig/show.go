package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary. In debug mode the
// full structure is dumped as well.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	c := fallback
	if cfg != nil {
		c = *cfg
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", c.Debug)
	fmt.Fprintf(out, "  Log File:         %s\n", c.LogFilePath())
	fmt.Fprintf(out, "  Output Dir:       %s\n", c.OutputDir)
	fmt.Fprintf(out, "  Lab Reports Dir:  %s\n", c.LabReportsDir)
	fmt.Fprintf(out, "  Hosting URL:      %s\n", orNone(c.HostingURL))
	fmt.Fprintf(out, "  Max Reports:      %s\n", maxReportsLabel(c.MaxReports))
	fmt.Fprintf(out, "  Workers:          %d\n", c.Workers)
	fmt.Fprintf(out, "  Common Input:     %s\n", orNone(c.CommonInput))
	fmt.Fprintf(out, "  Lab Input:        %s\n", orNone(c.LabInput))
	fmt.Fprintf(out, "  Wide Input:       %s\n", orNone(c.WideInput))
	fmt.Fprintf(out, "  Encoding:         %s\n", c.Encoding)
	fmt.Fprintf(out, "  Chart Font:       %s\n", orNone(c.ChartFont))
	fmt.Fprintf(out, "  PDF Timeout:      %s\n", c.PDFTimeoutDuration())
	fmt.Fprintf(out, "  Specimens:        %s\n", orNone(strings.Join(c.Specimens, ", ")))
	fmt.Fprintf(out, "  Organization:     %s\n", orNone(c.Organization))

	if c.Debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, c)
	}
}

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(none)"
	}
	return v
}

func maxReportsLabel(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}
