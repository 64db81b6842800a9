package zipstudy

import (
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

func TestFilesLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "zip,pop,income\n10001,100,50.5\n10002,200,60.0\n")

	f, e := NewFiles()
	assert.Nil(t, e)

	tbl, e := f.Load(path)
	assert.Nil(t, e)
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"zip", "pop", "income"}, tbl.ColumnNames())

	// all-digit zips impute as int; pop as int; income as float
	zip, _ := tbl.Column("zip")
	assert.Equal(t, DTint, zip.DataType())
	income, _ := tbl.Column("income")
	assert.Equal(t, DTfloat, income.DataType())
	assert.Equal(t, []float64{50.5, 60.0}, income.AsFloat())
}

func TestFilesLoadWiden(t *testing.T) {
	dir := t.TempDir()

	// an int row followed by a float row widens the column to float
	path := writeFile(t, dir, "in.csv", "x\n1\n2.5\n")

	f, _ := NewFiles()
	tbl, e := f.Load(path)
	assert.Nil(t, e)

	x, _ := tbl.Column("x")
	assert.Equal(t, DTfloat, x.DataType())
	assert.Equal(t, []float64{1, 2.5}, x.AsFloat())

	// strict mode refuses to widen
	fs, _ := NewFiles(FileStrict(true))
	_, e = fs.Load(path)
	assert.NotNil(t, e)
}

func TestFilesLoadStringColumns(t *testing.T) {
	dir := t.TempDir()

	// all-digit keys would impute as int and lose the leading zero
	path := writeFile(t, dir, "in.csv", "zip,pop\n00501,100\n10001,200\n")

	f, _ := NewFiles(FileStringColumns("zip"))
	tbl, e := f.Load(path)
	assert.Nil(t, e)

	zip, _ := tbl.Column("zip")
	assert.Equal(t, DTstring, zip.DataType())
	assert.Equal(t, []string{"00501", "10001"}, zip.AsString())

	pop, _ := tbl.Column("pop")
	assert.Equal(t, DTint, pop.DataType())
}

func TestFilesLoadFieldTypes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.csv", "zip,pop\n10001,100\n")

	// supplied types override imputation: keep zips as strings
	f, _ := NewFiles(
		FileFieldNames([]string{"zip", "pop"}),
		FileFieldTypes([]DataTypes{DTstring, DTint}))

	tbl, e := f.Load(path)
	assert.Nil(t, e)

	zip, _ := tbl.Column("zip")
	assert.Equal(t, DTstring, zip.DataType())
	assert.Equal(t, []string{"10001"}, zip.AsString())
}

func TestFilesLoadErrors(t *testing.T) {
	dir := t.TempDir()

	f, _ := NewFiles()

	_, e := f.Load(filepath.Join(dir, "missing.csv"))
	assert.NotNil(t, e)

	// ragged row
	path := writeFile(t, dir, "ragged.csv", "a,b\n1,2\n3\n")
	_, e = f.Load(path)
	assert.NotNil(t, e)

	// header only
	path = writeFile(t, dir, "empty.csv", "a,b\n")
	_, e = f.Load(path)
	assert.NotNil(t, e)

	// value unreadable as the declared type
	ft, _ := NewFiles(
		FileFieldNames([]string{"a"}),
		FileFieldTypes([]DataTypes{DTint}))
	path = writeFile(t, dir, "bad.csv", "a\nnope\n")
	_, e = ft.Load(path)
	assert.NotNil(t, e)
}

func TestFilesSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	zip, _ := NewCol("zip", []string{"10001", "10002"})
	income, _ := NewCol("income", []float64{50.25, 60.0})
	tbl, _ := NewTable(zip, income)

	f, _ := NewFiles(
		FileFieldNames([]string{"zip", "income"}),
		FileFieldTypes([]DataTypes{DTstring, DTfloat}))

	path := filepath.Join(dir, "out.csv")
	assert.Nil(t, f.Save(path, tbl))

	back, e := f.Load(path)
	assert.Nil(t, e)
	assert.Equal(t, 2, back.RowCount())

	z, _ := back.Column("zip")
	assert.Equal(t, []string{"10001", "10002"}, z.AsString())
	inc, _ := back.Column("income")
	assert.Equal(t, []float64{50.25, 60.0}, inc.AsFloat())
}
