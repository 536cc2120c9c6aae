package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-cert-flow/models"
)

const dateLayout = "2006-01-02"

func (a *App) apply(ctx context.Context, args []string) error {
	var certificateType, purpose string

	fs := a.newFlagSet("apply")
	fs.StringVar(&certificateType, "type", "", "certificate type: Bonafide or Study")
	fs.StringVar(&purpose, "purpose", "", "why the certificate is needed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"type": certificateType, "purpose": purpose}); err != nil {
		return err
	}

	response, err := a.adapter.SubmitCertificate(ctx, models.SubmitRequest{
		CertificateType: models.CertificateType(certificateType),
		Purpose:         purpose,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (id: %d)\n", response.Message, response.Certificate.ID)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	var all bool

	fs := a.newFlagSet("list")
	fs.BoolVar(&all, "all", false, "reviewers: show every application, not only the work queue")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope := models.ScopeDefault
	if all {
		scope = models.ScopeAll
	}

	applications, err := a.adapter.ListCertificates(ctx, scope)
	if err != nil {
		return err
	}
	if len(applications) == 0 {
		fmt.Fprintln(a.out, "no applications")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREG NO\tNAME\tTYPE\tAPPLIED\tHOD\tPRINCIPAL\tSTATUS")
	for _, app := range applications {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID,
			app.StudentRegNo,
			app.StudentName,
			app.CertificateType,
			app.AppliedAt.Format(dateLayout),
			app.Level1Status,
			app.Level2Status,
			app.FinalStatus,
		)
	}
	return tw.Flush()
}

func (a *App) approve(ctx context.Context, args []string) error {
	return a.decide(ctx, "approve", models.ActionApprove, args)
}

func (a *App) reject(ctx context.Context, args []string) error {
	return a.decide(ctx, "reject", models.ActionReject, args)
}

func (a *App) decide(ctx context.Context, name string, action models.DecisionAction, args []string) error {
	var id int64

	fs := a.newFlagSet(name)
	fs.Int64Var(&id, "id", 0, "application id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: -id", ErrMissingArgument)
	}

	response, err := a.adapter.DecideCertificate(ctx, models.DecisionRequest{ApplicationID: id, Action: action})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (final status: %s)\n", response.Message, response.Certificate.FinalStatus)
	return nil
}

// download prints the certificate, or writes its JSON snapshot to -o.
func (a *App) download(ctx context.Context, args []string) error {
	var id int64
	var output string

	fs := a.newFlagSet("download")
	fs.Int64Var(&id, "id", 0, "application id")
	fs.StringVar(&output, "o", "", "write the certificate data as JSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: -id", ErrMissingArgument)
	}

	snapshot, err := a.adapter.DownloadCertificate(ctx, id)
	if err != nil {
		return err
	}

	if output != "" {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode certificate: %w", err)
		}
		if err = os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write certificate: %w", err)
		}
		fmt.Fprintf(a.out, "certificate written to %s\n", output)
		return nil
	}

	printCertificate(a.out, snapshot)
	return nil
}

func printCertificate(w io.Writer, s models.CertificateSnapshot) {
	fmt.Fprintf(w, "%s CERTIFICATE\n\n", strings.ToUpper(string(s.CertificateType)))
	fmt.Fprintf(w, "This is to certify that %s (Reg. No. %s) is a student of the\n", s.StudentName, s.StudentRegNo)
	fmt.Fprintf(w, "department of %s, year %s, semester %s.\n\n", s.Department, s.Year, s.Semester)
	fmt.Fprintf(w, "Purpose: %s\n", s.Purpose)
	fmt.Fprintf(w, "Applied: %s\n", s.AppliedDate.Format(dateLayout))
	fmt.Fprintf(w, "Approved: %s\n", formatOptionalDate(s.PrincipalApprovedDate))
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}
