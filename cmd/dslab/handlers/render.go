package handlers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/provisioning/compensate"
	"github.com/imamik/dslab/internal/userdata"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// stdoutIsTTY gates styled output; piped output stays plain.
var stdoutIsTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(style lipgloss.Style, text string) string {
	if !stdoutIsTTY {
		return text
	}
	return style.Render(text)
}

// renderPlan shows what a deploy would create, for dry runs.
func renderPlan(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(titleStyle, fmt.Sprintf("  dslab plan: %s/%s", cfg.ProjectName, cfg.Environment)))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	b.WriteString(paint(sectionStyle, "  Would create"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    1 security group     (ports 22, 80, 443, %d from %s)\n", userdata.NotebookPort, cfg.AllowedCIDR))
	b.WriteString("    1 SSH key pair\n")
	b.WriteString(fmt.Sprintf("    1 S3 bucket          %s\n", cfg.BucketName))
	b.WriteString(fmt.Sprintf("    %d notebook instances (%s, %s)\n", cfg.InstanceCount, cfg.InstanceType, cfg.Region))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  No resources were created (dry run)."))
	b.WriteString("\n")

	return b.String()
}

// renderDeploySummary produces the end-of-run report.
func renderDeploySummary(cfg *config.Config, result *provisioning.DeploymentResult) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(titleStyle, fmt.Sprintf("  dslab deploy: %s/%s", cfg.ProjectName, cfg.Environment)))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	if !result.Succeeded {
		b.WriteString(paint(failStyle, "  Deployment failed"))
		b.WriteString(fmt.Sprintf("\n    %v\n", result.FailureReason))
		if len(result.Records) == 0 {
			b.WriteString(paint(okStyle, "  All created resources were rolled back."))
			b.WriteString("\n")
		} else {
			b.WriteString(paint(failStyle, fmt.Sprintf("  Rollback left %d resources behind:", len(result.Records))))
			b.WriteString("\n")
			for _, r := range result.Records {
				b.WriteString(fmt.Sprintf("    %-15s %s\n", r.Kind, r.ID))
			}
			b.WriteString(paint(dimStyle, "  Run 'dslab cleanup' to remove them."))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(paint(okStyle, fmt.Sprintf("  Workspace ready in %v", result.Duration.Round(time.Second))))
	b.WriteString("\n\n")

	b.WriteString(paint(sectionStyle, "  Notebooks"))
	b.WriteString("\n")
	for _, inst := range result.Instances {
		b.WriteString(fmt.Sprintf("    %-25s http://%s:%d\n", inst.Name, inst.PublicIP, userdata.NotebookPort))
	}

	b.WriteString("\n")
	b.WriteString(paint(sectionStyle, "  Storage"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    s3://%s\n", result.BucketName))

	if result.KeyMaterialPath != "" {
		b.WriteString("\n")
		b.WriteString(paint(sectionStyle, "  SSH"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    ssh -i %s ec2-user@<instance-ip>\n", result.KeyMaterialPath))
	}

	return b.String()
}

// renderSweepSummary reports a cleanup pass.
func renderSweepSummary(cfg *config.Config, result *compensate.SweepResult) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(titleStyle, fmt.Sprintf("  dslab cleanup: %s/%s", cfg.ProjectName, cfg.Environment)))
	b.WriteString("\n")
	b.WriteString(paint(dimStyle, "  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	if len(result.Found) == 0 {
		b.WriteString(paint(dimStyle, "  No tagged resources found."))
		b.WriteString("\n")
		return b.String()
	}

	released := len(result.Found) - len(result.Orphans)
	b.WriteString(paint(okStyle, fmt.Sprintf("  Released %d of %d resources", released, len(result.Found))))
	b.WriteString("\n")

	if len(result.Orphans) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(failStyle, "  Could not release:"))
		b.WriteString("\n")
		for _, r := range result.Orphans {
			b.WriteString(fmt.Sprintf("    %-15s %s\n", r.Kind, r.ID))
		}
	}

	return b.String()
}
