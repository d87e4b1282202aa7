package scans

import (
	"context"
	"fmt"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
)

type ScanCmd struct {
	Analyze ScanAnalyzeCmd `cmd:"" default:"withargs" help:"Analyze a plant photo."`
	List    ScanListCmd    `cmd:"" help:"List scan history."`
	Show    ScanShowCmd    `cmd:"" help:"Show one scan."`
	Archive ScanArchiveCmd `cmd:"" help:"Move a scan to the archive."`
	Restore ScanRestoreCmd `cmd:"" help:"Restore an archived scan."`
	Delete  ScanDeleteCmd  `cmd:"" help:"Permanently delete a scan."`
}

type ScanAnalyzeCmd struct {
	Image   string `arg:"" type:"existingfile" help:"Photo of the plant leaf."`
	Monitor bool   `help:"Start a 7-day monitoring session for this plant."`
	Lang    string `help:"Response language (en|tl). Defaults to the profile language."`
}

func (c *ScanAnalyzeCmd) Run(ctx *cli.Context) error {
	lang := ctx.Language()
	if c.Lang != "" {
		parsed, err := models.ParseLanguage(c.Lang)
		if err != nil {
			return err
		}
		lang = parsed
	}

	img, err := provider.LoadImage(c.Image)
	if err != nil {
		return err
	}

	fmt.Println("Analyzing...")
	res, err := ctx.Tracker().Analyze(context.Background(), img, lang, c.Monitor)
	if err != nil {
		return cli.DiagnosisError(err)
	}
	ctx.PrintSaveResult(res)
	return nil
}

type ScanListCmd struct {
	Archived bool `help:"List archived scans instead."`
}

func (c *ScanListCmd) Run(ctx *cli.Context) error {
	scans := ctx.Store.GetScans()
	if c.Archived {
		scans, _ = analytics.Archived(scans, nil)
	} else {
		scans = analytics.VisibleScans(scans)
	}

	if len(scans) == 0 {
		if c.Archived {
			fmt.Println("No archived scans.")
		} else {
			fmt.Println("No scans yet. Run 'smartgrow scan <image>' to analyze a plant.")
		}
		return nil
	}

	fmt.Printf("%-36s %-16s %-20s %-9s %-30s\n", "ID", "Scanned", "Plant", "Severity", "Diagnosis")
	cli.Rule(115)
	for _, s := range scans {
		fmt.Printf("%-36s %-16s %-20s %-9s %-30s\n",
			s.ID, ctx.FormatTime(s.Timestamp), cli.Truncate(s.PlantName, 20), s.Severity, cli.Truncate(s.Diagnosis, 30))
	}
	return nil
}

type ScanShowCmd struct {
	ID string `arg:"" help:"Scan ID."`
}

func (c *ScanShowCmd) Run(ctx *cli.Context) error {
	scan, ok := ctx.Store.GetScan(c.ID)
	if !ok {
		return fmt.Errorf("scan not found: %s", c.ID)
	}
	ctx.PrintDiagnosis(scan)
	return nil
}

type ScanArchiveCmd struct {
	ID string `arg:"" help:"Scan ID."`
}

func (c *ScanArchiveCmd) Run(ctx *cli.Context) error {
	found, err := ctx.Tracker().ArchiveScan(c.ID)
	if err != nil {
		return fmt.Errorf("failed to archive scan: %w", err)
	}
	if !found {
		return fmt.Errorf("scan not found: %s", c.ID)
	}
	fmt.Printf("✓ Scan archived: %s\n", c.ID)
	return nil
}

type ScanRestoreCmd struct {
	ID string `arg:"" help:"Scan ID."`
}

func (c *ScanRestoreCmd) Run(ctx *cli.Context) error {
	found, err := ctx.Tracker().RestoreScan(c.ID)
	if err != nil {
		return fmt.Errorf("failed to restore scan: %w", err)
	}
	if !found {
		return fmt.Errorf("scan not found: %s", c.ID)
	}
	fmt.Printf("✓ Scan restored: %s\n", c.ID)
	return nil
}

type ScanDeleteCmd struct {
	ID  string `arg:"" help:"Scan ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ScanDeleteCmd) Run(ctx *cli.Context) error {
	scan, ok := ctx.Store.GetScan(c.ID)
	if !ok {
		return fmt.Errorf("scan not found: %s", c.ID)
	}

	confirmed, err := ctx.ConfirmDelete(fmt.Sprintf("Delete %q from history?", scan.PlantName), c.Yes)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	if _, err := ctx.Tracker().DeleteScan(c.ID); err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	fmt.Printf("✓ Scan deleted: %s\n", scan.PlantName)
	return nil
}
