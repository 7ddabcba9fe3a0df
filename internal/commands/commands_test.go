package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dlmm-lp/internal/config"
	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
)

func lineFor(t *testing.T, out, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return line
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return ""
}

func TestPrintCurve(t *testing.T) {
	curve, err := impermanent.SampleLossCurve(10, impermanent.WithLowerBound(-10), impermanent.WithStep(5))
	require.NoError(t, err)
	overlay := impermanent.OverlayForBins(-5, 5, 0)

	var buf bytes.Buffer
	printCurve(&buf, curve, &overlay)
	out := buf.String()

	assert.True(t, strings.HasSuffix(lineFor(t, out, "0%"), " *"))
	assert.True(t, strings.HasSuffix(lineFor(t, out, "5%"), " *"))
	assert.False(t, strings.HasSuffix(lineFor(t, out, "-10%"), " *"))
	assert.Contains(t, out, "Range -5%..5%: 3 samples")
	assert.Contains(t, out, "over -10%..10%")
}

func TestPrintCurve_NoOverlay(t *testing.T) {
	curve, err := impermanent.SampleLossCurve(20)
	require.NoError(t, err)

	var buf bytes.Buffer
	printCurve(&buf, curve, nil)

	assert.NotContains(t, buf.String(), " *")
	assert.NotContains(t, buf.String(), "Range")
}

func activeBin(id int32) *int32 { return &id }

func TestPrintPositions(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	positions := []dlmm.Position{
		{Address: solana.NewWallet().PublicKey(), Pool: pool, LowerBinID: 100, UpperBinID: 110, PoolActiveID: activeBin(105), Liquidity: decimal.NewFromInt(7)},
		{Address: solana.NewWallet().PublicKey(), Pool: pool, LowerBinID: 200, UpperBinID: 210, Liquidity: decimal.Zero},
	}

	var buf bytes.Buffer
	printPositions(&buf, positions)
	out := buf.String()

	first := lineFor(t, out, positions[0].Address.String())
	assert.Contains(t, first, "100..110")
	assert.Contains(t, first, "yes")

	second := lineFor(t, out, positions[1].Address.String())
	assert.Contains(t, second, notAvailable)
	assert.NotContains(t, second, "yes")
	assert.Contains(t, out, "Total: 2 positions")
}

func TestPrintPools(t *testing.T) {
	price := decimal.NewFromFloat(151.25)
	pools := []dlmm.Pool{
		{Address: solana.NewWallet().PublicKey(), TokenX: dlmm.Token{Symbol: "SOL"}, TokenY: dlmm.Token{Symbol: "USDC"}, Price: &price},
		{Address: solana.NewWallet().PublicKey(), TokenX: dlmm.Token{Symbol: "BONK"}, TokenY: dlmm.Token{Symbol: "SOL"}},
	}

	var buf bytes.Buffer
	printPools(&buf, pools)
	out := buf.String()

	assert.Contains(t, lineFor(t, out, pools[0].DisplayName()), "151.25000000")
	assert.Contains(t, lineFor(t, out, pools[1].DisplayName()), notAvailable)
	assert.Contains(t, out, "Total: 2 pools")
}

func TestResolveOwner(t *testing.T) {
	w := solana.NewWallet()
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	content := fmt.Sprintf("wallets:\n  - name: main\n    private_key: %q\n", w.PrivateKey.String())
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := config.Default()
	cfg.WalletsFile = path

	owner, err := resolveOwner(cfg, "main")
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), owner)

	other := solana.NewWallet().PublicKey()
	owner, err = resolveOwner(cfg, other.String())
	require.NoError(t, err)
	assert.Equal(t, other, owner)

	_, err = resolveOwner(cfg, "spare")
	assert.Error(t, err)
}

func TestCurveCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"curve", "--max", "10", "--lower", "-10", "--step", "5", "--bin-lower", "-5", "--bin-upper", "5"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Range -5%..5%: 3 samples")
}

func TestOpenCommand_InvalidRange(t *testing.T) {
	rootCmd.SetArgs([]string{"open", "--wallet", "main", "--pool", solana.SystemProgramID.String(), "--left", "5", "--right", "-5"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, dlmm.ErrInvalidBinRange)
}

func TestRootCommand_Wiring(t *testing.T) {
	require.NotNil(t, rootCmd.RunE, "root command should open the terminal UI")

	for _, name := range []string{"tui", "curve", "pools", "positions", "open", "serve"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
