package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/pulseid/platform/pkg/codec"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/risk"
	"github.com/pulseid/platform/pkg/share"
	"github.com/pulseid/platform/pkg/units"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a viewer URL from a profile JSON file (- for stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			viewer, _ := cmd.Flags().GetString("viewer")
			eccFlag, _ := cmd.Flags().GetString("ecc")
			attachRisk, _ := cmd.Flags().GetBool("risk")
			noCompress, _ := cmd.Flags().GetBool("no-compress")
			vocabPath, _ := cmd.Flags().GetString("vocabulary")

			p, err := readProfile(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			ecc, err := share.ParseErrorCorrection(eccFlag)
			if err != nil {
				return err
			}
			engine, err := loadEngine(vocabPath)
			if err != nil {
				return err
			}
			svc, err := share.NewService(share.Config{
				ViewerBaseURL:   viewer,
				ErrorCorrection: ecc,
				Compress:        !noCompress,
			}, engine, nil, nil)
			if err != nil {
				return err
			}

			link, err := svc.Share(cmd.Context(), p, share.ShareOptions{AttachRisk: attachRisk})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link.URL)
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d bytes at level %s\n", link.URLBytes, link.Capacity, link.ErrorCorrection)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "-", "Profile JSON file")
	cmd.Flags().String("viewer", "http://localhost:5173/report", "Viewer base URL")
	cmd.Flags().String("ecc", "H", "QR error correction level (L, M, Q, H)")
	cmd.Flags().Bool("risk", false, "Attach a risk assessment")
	cmd.Flags().Bool("no-compress", false, "Use the plain JSON scheme")
	cmd.Flags().String("vocabulary", "", "Risk vocabulary YAML file")
	return cmd
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <viewer-url|data>",
		Short: "Decode a viewer URL or data parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asReport, _ := cmd.Flags().GetBool("report")
			vitals, _ := cmd.Flags().GetBool("vitals")

			text := dataParam(args[0])
			if !asReport {
				payload, err := codec.Parse(text)
				if err != nil {
					return err
				}
				p, err := codec.Expand(payload)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			}

			svc, err := share.NewService(share.Config{ViewerBaseURL: "http://localhost/report"}, nil, nil, nil)
			if err != nil {
				return err
			}
			rep, err := svc.View(cmd.Context(), text, share.ViewOptions{SimulateVitals: vitals})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().Bool("report", false, "Render the responder report instead of the profile")
	cmd.Flags().Bool("vitals", false, "Include simulated vitals in the report")
	return cmd
}

func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Print the risk assessment for a profile JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			vocabPath, _ := cmd.Flags().GetString("vocabulary")

			p, err := readProfile(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			engine, err := loadEngine(vocabPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.Assess(p))
		},
	}
	cmd.Flags().StringP("file", "f", "-", "Profile JSON file")
	cmd.Flags().String("vocabulary", "", "Risk vocabulary YAML file")
	return cmd
}

func bmiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Compute BMI from display height and weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			height, _ := cmd.Flags().GetString("height")
			heightUnit, _ := cmd.Flags().GetString("height-unit")
			weight, _ := cmd.Flags().GetString("weight")
			weightUnit, _ := cmd.Flags().GetString("weight-unit")

			if _, err := units.ParseHeightUnit(heightUnit); err != nil {
				return err
			}
			if _, err := units.ParseWeightUnit(weightUnit); err != nil {
				return err
			}

			m, okH := units.HeightToMeters(height, heightUnit, "", "")
			kg, okW := units.WeightToKilograms(weight, weightUnit)
			if !okH || !okW {
				fmt.Fprintln(cmd.OutOrStdout(), units.NotAvailable)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), units.FormatBMI(units.BMI(m, kg)))
			return nil
		},
	}
	cmd.Flags().String("height", "", `Height, e.g. 180 or 5'11"`)
	cmd.Flags().String("height-unit", "cm", "cm or ft")
	cmd.Flags().String("weight", "", "Weight")
	cmd.Flags().String("weight-unit", "kg", "kg or lbs")
	return cmd
}

func readProfile(stdin io.Reader, file string) (models.Profile, error) {
	var r io.Reader = stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return models.Profile{}, err
		}
		defer f.Close()
		r = f
	}

	var p models.Profile
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return models.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return p, nil
}

func loadEngine(path string) (*risk.Engine, error) {
	vocab, err := risk.LoadVocabulary(path)
	if err != nil {
		return nil, err
	}
	return risk.NewEngine(vocab), nil
}

// dataParam accepts a full viewer URL or the bare data value.
func dataParam(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil {
		return arg
	}
	if data := u.Query().Get("data"); data != "" {
		return data
	}
	return arg
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
