package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(path, []byte(contents), 0644))

	return path
}

func TestLoadRenames(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml",
		"income-renames:\n"+
			"  ZIPCODE: ZIP.code\n"+
			"  N02650: return.count\n"+
			"  A02650: total.income\n"+
			"demo-renames:\n"+
			"  JURISDICTION.NAME: ZIP.code\n")

	cfg, e := loadRenames(path)
	assert.Nil(t, e)

	// source headers keep their case: the whole point of the direct YAML pass
	assert.Equal(t, "ZIP.code", cfg.Income["ZIPCODE"])
	assert.Equal(t, "return.count", cfg.Income["N02650"])
	assert.Equal(t, "total.income", cfg.Income["A02650"])
	assert.Equal(t, "ZIP.code", cfg.Demo["JURISDICTION.NAME"])

	_, ok := cfg.Income["zipcode"]
	assert.False(t, ok)

	// no config file means no overrides
	cfg, e = loadRenames("")
	assert.Nil(t, e)
	assert.Equal(t, 0, len(cfg.Income))
	assert.Equal(t, 0, len(cfg.Demo))

	_, e = loadRenames(filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, e)
}

func TestRunWithConfigRenames(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	// sources with headers the built-in maps don't know
	incomeCSV := writeFile(t, dir, "income.csv",
		"ZONE,FILERS,AGI\n"+
			"10001,100,5000\n"+
			"10002,100,5200\n"+
			"10003,100,5400\n"+
			"10004,100,5600\n"+
			"10005,100,5800\n"+
			"10006,100,50000\n")

	demoCSV := writeFile(t, dir, "demo.csv",
		"ZONE,NBLACK,NHISP,NWHITE\n"+
			"10001,70,20,30\n"+
			"10002,60,25,40\n"+
			"10003,50,30,50\n"+
			"10004,40,35,60\n"+
			"10005,30,40,70\n"+
			"10006,20,45,80\n")

	config := writeFile(t, dir, "config.yaml",
		"income-renames:\n"+
			"  ZONE: ZIP.code\n"+
			"  FILERS: return.count\n"+
			"  AGI: total.income\n"+
			"demo-renames:\n"+
			"  ZONE: ZIP.code\n"+
			"  NBLACK: black.count\n"+
			"  NHISP: hispanic.count\n"+
			"  NWHITE: white.count\n")

	cmd := rootCmd()
	cmd.SetArgs([]string{
		"--income", incomeCSV,
		"--demographics", demoCSV,
		"--config", config,
		"--out", outDir,
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Nil(t, cmd.Execute())

	// the remapped sources made it all the way through to the plots
	_, e := os.Stat(filepath.Join(outDir, "black_vs_white_full.html"))
	assert.Nil(t, e)
}
