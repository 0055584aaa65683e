package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/seenimoa/compounder/internal/config"
)

func TestApplyValuationFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addValuationFlags(cmd)
	if err := cmd.ParseFlags([]string{"--coc", "10", "--fade", "15", "--eps-period", "Mar 2023"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	v := config.Default().Valuation
	if err := applyValuationFlags(cmd, &v); err != nil {
		t.Fatalf("applyValuationFlags: %v", err)
	}
	if v.CostOfCapital != 10 {
		t.Errorf("CostOfCapital = %v, want 10", v.CostOfCapital)
	}
	if v.FadePeriod != 15 {
		t.Errorf("FadePeriod = %d, want 15", v.FadePeriod)
	}
	if v.EPSPeriod != "Mar 2023" {
		t.Errorf("EPSPeriod = %q", v.EPSPeriod)
	}
	// Flags left unset keep the configured values.
	if v.GrowthRate != 12 || v.HighGrowthPeriod != 14 || v.TerminalGrowthRate != 5 {
		t.Errorf("unset flags changed config: %+v", v)
	}
}

func TestApplyValuationFlags_OutOfRange(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addValuationFlags(cmd)
	if err := cmd.ParseFlags([]string{"--fade", "7"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	v := config.Default().Valuation
	if err := applyValuationFlags(cmd, &v); err != nil {
		t.Fatalf("applyValuationFlags: %v", err)
	}
	if err := v.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
	}
}

func TestAddFileFlag(t *testing.T) {
	for _, cmd := range []*cobra.Command{valueCmd, sensitivityCmd, tablesCmd} {
		if cmd.Flags().Lookup("file") == nil {
			t.Errorf("%s: missing --file flag", cmd.Name())
		}
	}
}
