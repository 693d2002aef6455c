package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/importerr"
)

func ordersSpec(columns ...string) Spec {
	return Spec{
		Schema:  "shop",
		Table:   "orders",
		Columns: columns,
		Sources: []Source{FileSource{File: csvfile.New("/data/orders.csv")}},
		Options: Options{UseTimestampColumn: true},
	}
}

func (i *ImporterTestSuite) TestImport_Validation() {
	{
		// No columns
		_, err := i.engine.Import(i.T().Context(), ordersSpec())
		i.True(importerr.IsKind(err, importerr.NoColumns), err)
	}
	{
		// Duplicates are found before anything runs
		_, err := i.engine.Import(i.T().Context(), ordersSpec("id", "name", "ID"))
		i.True(importerr.IsKind(err, importerr.DuplicateColumnNames), err)
		i.ErrorContains(err, "duplicate columns [ID]")
	}
	{
		// No sources
		spec := ordersSpec("id")
		spec.Sources = nil
		_, err := i.engine.Import(i.T().Context(), spec)
		i.True(importerr.IsKind(err, importerr.InvalidSourceData), err)
	}
	{
		// Invalid CSV parameters
		spec := ordersSpec("id")
		spec.Sources = []Source{FileSource{File: csvfile.File{Path: "/data/orders.csv", Delimiter: ";;"}}}
		_, err := i.engine.Import(i.T().Context(), spec)
		i.True(importerr.IsKind(err, importerr.InvalidCsvParams), err)
	}
	{
		// Enclosure and escape character together
		spec := ordersSpec("id")
		spec.Sources = []Source{FileSetSource{Files: []csvfile.File{csvfile.New("/data/a.csv"), {Path: "/data/b.csv", Enclosure: `"`, EscapeChar: `\`}}}}
		_, err := i.engine.Import(i.T().Context(), spec)
		i.True(importerr.IsKind(err, importerr.InvalidCsvParams), err)
	}
	i.Empty(i.dest.loads)
}

func (i *ImporterTestSuite) TestImport_TableNotFound() {
	i.expectTable("orders", nil)

	_, err := i.engine.Import(i.T().Context(), ordersSpec("id"))
	i.True(importerr.IsKind(err, importerr.TableNotFound), err)
	i.Empty(i.dest.loads)
}

func (i *ImporterTestSuite) TestImport_ColumnMismatch() {
	i.expectOrders("id")

	_, err := i.engine.Import(i.T().Context(), ordersSpec("id", "missing", "name"))
	i.True(importerr.IsKind(err, importerr.ColumnMismatch), err)
	i.EqualError(err, "ColumnMismatch: columns [missing] not found in table shop.orders")
}

func (i *ImporterTestSuite) TestImport_FullReplace() {
	i.dest.results = []destination.LoadResult{{
		RowsLoaded: 3,
		Warnings:   []map[string]any{{"level": "Warning", "message": "Data truncated for column 'name' at row 2"}},
	}}

	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectDedupe("`id`, `name`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("DELETE FROM `shop`.`orders`").WillReturnResult(sqlmock.NewResult(0, 10))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 3))
	i.mock.ExpectCommit()
	i.expectDropStaging()

	result, err := i.engine.Import(i.T().Context(), ordersSpec("ID", "Name"))
	i.NoError(err)
	i.Equal(int64(3), result.ImportedRowsCount)
	i.Equal([]string{"id", "name"}, result.ImportedColumns)
	i.Equal([]string{phaseLoad, phaseDedupe, phaseDelete, phaseInsert}, timerNames(result))
	i.Equal([]FileWarnings{{File: "orders.csv", Rows: []map[string]any{{"level": "Warning", "message": "Data truncated for column 'name' at row 2"}}}}, result.Warnings)

	i.Len(i.dest.loads, 1)
	i.Equal([]string{"id", "name"}, i.dest.loads[0].Fields)
	i.Equal(stagingTable, i.dest.loads[0].StagingID.FullyQualifiedName())

	// One timing per phase and the staged row count.
	i.Len(i.metrics.timings, 4)
	i.Equal(map[string]string{"table": "shop.orders", "destination": "mysql", "phase": phaseLoad}, i.metrics.timings[0].tags)
	i.Equal(int64(3), i.metrics.counts["import.rows"])
}

func (i *ImporterTestSuite) TestImport_FullReplace_ConvertEmptyToNull() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectDedupe("`id`, `name`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("DELETE FROM `shop`.`orders`").WillReturnResult(sqlmock.NewResult(0, 0))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`) SELECT s.`id`, NULLIF(s.`name`, '') FROM " + stagingTable + " AS s").
		WillReturnResult(sqlmock.NewResult(0, 1))
	i.mock.ExpectCommit()
	i.expectDropStaging()

	spec := ordersSpec("id", "name")
	spec.UseTimestampColumn = false
	spec.ConvertEmptyToNull = []string{"NAME"}
	_, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
}

func (i *ImporterTestSuite) TestImport_Incremental() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectDedupe("`id`, `name`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("UPDATE `shop`.`orders` AS t INNER JOIN " + stagingTable + " AS s ON t.`id` = s.`id` SET t.`name` = s.`name`, t.`_timestamp` = ? WHERE NOT (t.`name` <=> s.`name`)").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
	i.mock.ExpectExec("DELETE s FROM " + stagingTable + " AS s INNER JOIN `shop`.`orders` AS t ON t.`id` = s.`id`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
	i.mock.ExpectCommit()
	i.expectDropStaging()

	spec := ordersSpec("id", "name")
	spec.Incremental = true
	result, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
	i.Equal([]string{phaseLoad, phaseDedupe, phaseUpdate, phaseDelete, phaseInsert}, timerNames(result))
}

func (i *ImporterTestSuite) TestImport_Incremental_PrimaryKeyOnly() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT")
	i.expectDedupe("`id`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("DELETE s FROM " + stagingTable + " AS s INNER JOIN `shop`.`orders` AS t ON t.`id` = s.`id`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `_timestamp`) SELECT s.`id`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
	i.mock.ExpectCommit()
	i.expectDropStaging()

	spec := ordersSpec("id")
	spec.Incremental = true
	result, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
	i.Equal([]string{phaseLoad, phaseDedupe, phaseDelete, phaseInsert}, timerNames(result))
}

func (i *ImporterTestSuite) TestImport_Incremental_NoPrimaryKey() {
	{
		// The table has no primary key
		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
		i.expectDropStaging()

		spec := ordersSpec("id", "name")
		spec.Incremental = true
		result, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
		i.Equal([]string{phaseLoad, phaseInsert}, timerNames(result))
	}
	{
		// The primary key is not imported
		i.expectTable("orders", [][2]string{{"id", "int(11)"}, {"name", "varchar(255)"}, {"_timestamp", "datetime"}}, "id")
		i.expectCreateStaging("`name` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`name`, `_timestamp`) SELECT s.`name`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
		i.expectDropStaging()

		spec := ordersSpec("name")
		spec.Incremental = true
		_, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
	}
}

func (i *ImporterTestSuite) TestImport_AddsTimestampColumn() {
	i.expectTable("orders", [][2]string{{"id", "int(11)"}, {"name", "varchar(255)"}})
	i.mock.ExpectExec("ALTER TABLE `shop`.`orders` ADD COLUMN `_timestamp` DATETIME").WillReturnResult(sqlmock.NewResult(0, 0))
	i.expectCreateStaging("`id` LONGTEXT")
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `_timestamp`) SELECT s.`id`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
	i.expectDropStaging()

	spec := ordersSpec("id")
	spec.Incremental = true
	_, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
}

func (i *ImporterTestSuite) TestImport_TimestampColumnDisabled() {
	i.expectTable("orders", [][2]string{{"id", "int(11)"}, {"name", "varchar(255)"}})
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`) SELECT s.`id`, s.`name` FROM " + stagingTable + " AS s").
		WillReturnResult(sqlmock.NewResult(0, 1))
	i.expectDropStaging()

	spec := ordersSpec("id", "name")
	spec.Incremental = true
	spec.UseTimestampColumn = false
	_, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
}

func (i *ImporterTestSuite) TestImport_LoadFailureDropsStaging() {
	i.dest.loadErr = importerr.New(importerr.InvalidSourceData, "Row 3 doesn't contain data for all columns")

	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT")
	i.expectDropStaging()

	_, err := i.engine.Import(i.T().Context(), ordersSpec("id"))
	i.True(importerr.IsKind(err, importerr.InvalidSourceData), err)
	i.ErrorContains(err, "failed to load /data/orders.csv")
	i.Empty(i.metrics.timings)
}

func (i *ImporterTestSuite) TestImport_MergeFailureDropsStaging() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectDedupe("`id`, `name`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("DELETE FROM `shop`.`orders`").WillReturnResult(sqlmock.NewResult(0, 0))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnError(fmt.Errorf("Error 1406 (22001): Data too long for column 'name' at row 1"))
	i.mock.ExpectRollback()
	i.expectDropStaging()

	_, err := i.engine.Import(i.T().Context(), ordersSpec("id", "name"))
	i.True(importerr.IsKind(err, importerr.StringTooLong), err)
}

func (i *ImporterTestSuite) TestImport_DedupeFailureDropsSibling() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT")
	i.mock.ExpectExec("CREATE TABLE " + dedupedTable + " AS SELECT `id`, `_staging_ordinal` FROM (SELECT `id`, `_staging_ordinal`, ROW_NUMBER() OVER (PARTITION BY `id` ORDER BY `_staging_ordinal` DESC) AS `__row_number` FROM " +
		stagingTable + ") AS dedupe WHERE `__row_number` = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	i.mock.ExpectExec("DROP TABLE " + stagingTable).WillReturnError(fmt.Errorf("Error 1051 (42S02): Unknown table"))
	i.mock.ExpectExec("DROP TABLE IF EXISTS " + dedupedTable).WillReturnResult(sqlmock.NewResult(0, 0))
	i.expectDropStaging()

	_, err := i.engine.Import(i.T().Context(), ordersSpec("id"))
	i.ErrorContains(err, "failed to swap staging tables")
}

func (i *ImporterTestSuite) TestImport_HeaderFields() {
	dir := i.T().TempDir()
	{
		// Header columns are matched case insensitively, unknown ones are discarded
		path := filepath.Join(dir, "orders.csv")
		i.Require().NoError(os.WriteFile(path, []byte("NAME,extra,Id\nfoo,x,1\n"), 0o644))

		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
		i.expectDropStaging()

		spec := ordersSpec("id", "name")
		spec.Sources = []Source{FileSource{File: csvfile.New(path)}}
		spec.IgnoreHeaderLines = 1
		spec.Incremental = true
		_, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
		i.Len(i.dest.loads, 1)
		i.Equal([]string{"name", "", "id"}, i.dest.loads[0].Fields)
		i.Equal(1, i.dest.loads[0].IgnoreHeaderLines)
	}
	{
		// Declared columns take precedence over the header
		path := filepath.Join(dir, "declared.csv")
		i.Require().NoError(os.WriteFile(path, []byte("a,b\n1,foo\n"), 0o644))

		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, s.`name`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
		i.expectDropStaging()

		file := csvfile.New(path)
		file.Columns = []string{"id", "name"}
		spec := ordersSpec("id", "name")
		spec.Sources = []Source{FileSource{File: file}}
		spec.IgnoreHeaderLines = 1
		spec.Incremental = true
		_, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
		i.Equal([]string{"id", "name"}, i.dest.loads[1].Fields)
	}
}

func (i *ImporterTestSuite) TestImport_HeaderErrors() {
	dir := i.T().TempDir()
	{
		// Import columns missing from the file
		path := filepath.Join(dir, "partial.csv")
		i.Require().NoError(os.WriteFile(path, []byte("id,other\n1,x\n"), 0o644))

		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
		i.expectDropStaging()

		spec := ordersSpec("id", "name")
		spec.Sources = []Source{FileSource{File: csvfile.New(path)}}
		spec.IgnoreHeaderLines = 1
		_, err := i.engine.Import(i.T().Context(), spec)
		i.True(importerr.IsKind(err, importerr.ColumnMismatch), err)
		i.ErrorContains(err, `columns [name] are missing from "partial.csv"`)
	}
	{
		// Duplicate header names
		path := filepath.Join(dir, "duplicates.csv")
		i.Require().NoError(os.WriteFile(path, []byte("id,name,ID\n1,x,1\n"), 0o644))

		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
		i.expectDropStaging()

		spec := ordersSpec("id", "name")
		spec.Sources = []Source{FileSource{File: csvfile.New(path)}}
		spec.IgnoreHeaderLines = 1
		_, err := i.engine.Import(i.T().Context(), spec)
		i.True(importerr.IsKind(err, importerr.DuplicateColumnNames), err)
	}
	i.Empty(i.dest.loads)
}

func (i *ImporterTestSuite) TestImport_FileSet() {
	i.dest.results = []destination.LoadResult{
		{RowsLoaded: 2},
		{RowsLoaded: 5, Warnings: []map[string]any{{"line_number": int64(4)}}},
	}

	i.expectOrders()
	i.expectCreateStaging("`id` LONGTEXT")
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `_timestamp`) SELECT s.`id`, ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 7))
	i.expectDropStaging()

	spec := ordersSpec("id")
	spec.Incremental = true
	spec.Sources = []Source{FileSetSource{Files: []csvfile.File{csvfile.New("s3://bucket/a.csv"), csvfile.New("s3://bucket/b.csv.gz")}}}
	result, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
	i.Equal(int64(7), result.ImportedRowsCount)
	i.Equal([]FileWarnings{{File: "b.csv.gz", Rows: []map[string]any{{"line_number": int64(4)}}}}, result.Warnings)
	i.Len(i.dest.loads, 2)
	i.Equal("s3://bucket/a.csv", i.dest.loads[0].File.Path)
	i.Equal("s3://bucket/b.csv.gz", i.dest.loads[1].File.Path)
}

func (i *ImporterTestSuite) writeManifest(dir, contents string) string {
	path := filepath.Join(dir, "manifest.json")
	i.Require().NoError(os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func (i *ImporterTestSuite) TestImport_Manifest() {
	dir := i.T().TempDir()
	{
		// No entries
		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `_timestamp`) SELECT s.`id`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 0))
		i.expectDropStaging()

		spec := ordersSpec("id")
		spec.Incremental = true
		spec.Sources = []Source{ManifestSource{URL: i.writeManifest(dir, `{"entries": []}`), Format: csvfile.New("")}}
		result, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
		i.Equal(int64(0), result.ImportedRowsCount)
		i.Empty(i.dest.loads)
	}
	{
		// Missing optional files are skipped
		present := filepath.Join(dir, "present.csv")
		i.Require().NoError(os.WriteFile(present, []byte("1\n"), 0o644))
		manifestPath := i.writeManifest(dir, fmt.Sprintf(`{"entries": [{"url": %q}, {"url": %q, "mandatory": false}]}`, present, filepath.Join(dir, "missing.csv")))

		i.expectOrders()
		i.expectCreateStaging("`id` LONGTEXT")
		i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `_timestamp`) SELECT s.`id`, ? FROM " + stagingTable + " AS s").
			WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 1))
		i.expectDropStaging()

		format := csvfile.New("")
		format.Delimiter = "|"
		spec := ordersSpec("id")
		spec.Incremental = true
		spec.Sources = []Source{ManifestSource{URL: manifestPath, Format: format}}
		result, err := i.engine.Import(i.T().Context(), spec)
		i.NoError(err)
		i.Equal(int64(1), result.ImportedRowsCount)
		i.Len(i.dest.loads, 1)
		i.Equal(present, i.dest.loads[0].File.Path)
		i.Equal("|", i.dest.loads[0].File.Delimiter)
	}
}

func (i *ImporterTestSuite) TestImport_Manifest_MandatoryFileNotFound() {
	dir := i.T().TempDir()
	present := filepath.Join(dir, "present.csv")
	i.Require().NoError(os.WriteFile(present, []byte("1\n"), 0o644))
	manifestPath := i.writeManifest(dir, fmt.Sprintf(`{"entries": [{"url": %q}, {"url": %q}]}`, present, filepath.Join(dir, "missing.csv")))

	i.expectOrders()
	i.expectCreateStaging("`id` LONGTEXT")
	i.expectDropStaging()

	spec := ordersSpec("id")
	spec.Sources = []Source{ManifestSource{URL: manifestPath, Format: csvfile.New("")}}
	_, err := i.engine.Import(i.T().Context(), spec)
	i.True(importerr.IsKind(err, importerr.MandatoryFileNotFound), err)
	// Nothing is loaded once a mandatory file is missing, even the files listed before it.
	i.Empty(i.dest.loads)
}

func (i *ImporterTestSuite) TestImport_TableSource() {
	i.expectOrders("id")
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectTable("orders_raw", [][2]string{{"ID", "bigint"}, {"Name", "text"}, {"note", "text"}})
	i.mock.ExpectExec("INSERT INTO " + stagingTable + " (`id`, `name`) SELECT COALESCE(CAST(src.`ID` AS CHAR), ''), CAST(src.`Name` AS CHAR) FROM `shop`.`orders_raw` AS src").
		WillReturnResult(sqlmock.NewResult(0, 4))
	i.expectDedupe("`id`, `name`", "`id`")
	i.mock.ExpectBegin()
	i.mock.ExpectExec("DELETE FROM `shop`.`orders`").WillReturnResult(sqlmock.NewResult(0, 0))
	i.mock.ExpectExec("INSERT INTO `shop`.`orders` (`id`, `name`, `_timestamp`) SELECT s.`id`, NULLIF(s.`name`, ''), ? FROM " + stagingTable + " AS s").
		WithArgs(testTimestamp).WillReturnResult(sqlmock.NewResult(0, 4))
	i.mock.ExpectCommit()
	i.expectDropStaging()

	spec := ordersSpec("id", "name")
	spec.ConvertEmptyToNull = []string{"name"}
	spec.Sources = []Source{TableSource{Table: "orders_raw"}}
	result, err := i.engine.Import(i.T().Context(), spec)
	i.NoError(err)
	i.Equal(int64(4), result.ImportedRowsCount)
	i.Empty(i.dest.loads)
}

func (i *ImporterTestSuite) TestImport_TableSource_ColumnMismatch() {
	i.expectOrders()
	i.expectCreateStaging("`id` LONGTEXT, `name` LONGTEXT")
	i.expectTable("orders_raw", [][2]string{{"id", "bigint"}})
	i.expectDropStaging()

	spec := ordersSpec("id", "name")
	spec.Sources = []Source{TableSource{Schema: "shop", Table: "orders_raw"}}
	_, err := i.engine.Import(i.T().Context(), spec)
	i.True(importerr.IsKind(err, importerr.ColumnMismatch), err)
	i.ErrorContains(err, "columns [name] not found in source table shop.orders_raw")
}
