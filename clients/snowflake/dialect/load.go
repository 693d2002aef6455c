package dialect

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/sql"
)

var controlCharacters = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func quoteOption(value string) string {
	return controlCharacters.Replace(sql.QuoteLiteral(value))
}

// BuildPutQuery uploads a local file to a stage as is, the file name on the stage is the local base name.
func (SnowflakeDialect) BuildPutQuery(localPath, stageName string) string {
	return fmt.Sprintf("PUT %s %s AUTO_COMPRESS = FALSE OVERWRITE = TRUE", sql.QuoteLiteral("file://"+localPath), stageName)
}

// BuildRemoveFilesFromStage removes a single staged file, or everything on the stage when fileName is empty.
func (SnowflakeDialect) BuildRemoveFilesFromStage(stageName, fileName string) string {
	if fileName == "" {
		return "REMOVE " + stageName
	}
	return fmt.Sprintf("REMOVE %s/%s", stageName, fileName)
}

type CopyArgs struct {
	StagingID sql.TableIdentifier
	StageName string
	FileName  string
	// Fields lists the staging column for every field of a row, empty entries are discarded.
	Fields       []string
	Delimiter    string
	Enclosure    string
	EscapeChar   string
	LineBreak    string
	IgnoreRows   int
	Gzip         bool
	ExtraOptions []string
}

func (sd SnowflakeDialect) BuildCopyIntoTableQuery(args CopyArgs) string {
	var cols, positions []string
	for i, field := range args.Fields {
		if field == "" {
			continue
		}
		cols = append(cols, sd.QuoteIdentifier(field))
		positions = append(positions, fmt.Sprintf("$%d", i+1))
	}

	source := args.StageName
	if len(cols) != len(args.Fields) {
		// Fields that are not imported are skipped by selecting the remaining ones by position.
		source = fmt.Sprintf("(SELECT %s FROM %s)", strings.Join(positions, ", "), args.StageName)
	}

	format := []string{
		"TYPE = 'CSV'",
		"FIELD_DELIMITER = " + quoteOption(args.Delimiter),
		"RECORD_DELIMITER = " + quoteOption(args.LineBreak),
		fmt.Sprintf("SKIP_HEADER = %d", args.IgnoreRows),
	}

	if args.Enclosure != "" {
		format = append(format, "FIELD_OPTIONALLY_ENCLOSED_BY = "+quoteOption(args.Enclosure))
	}

	if args.EscapeChar != "" {
		format = append(format, "ESCAPE = "+quoteOption(args.EscapeChar), "ESCAPE_UNENCLOSED_FIELD = "+quoteOption(args.EscapeChar))
	} else {
		format = append(format, "ESCAPE = NONE", "ESCAPE_UNENCLOSED_FIELD = NONE")
	}

	compression := "NONE"
	if args.Gzip {
		compression = "GZIP"
	}

	// Empty fields stay empty strings, NULL conversion happens on merge.
	format = append(format, "COMPRESSION = "+compression, "EMPTY_FIELD_AS_NULL = FALSE", "NULL_IF = ()")

	parts := []string{
		fmt.Sprintf("COPY INTO %s (%s) FROM %s", args.StagingID.FullyQualifiedName(), strings.Join(cols, ", "), source),
		fmt.Sprintf("FILES = (%s)", sql.QuoteLiteral(args.FileName)),
		fmt.Sprintf("FILE_FORMAT = (%s)", strings.Join(format, " ")),
		"PURGE = TRUE",
	}
	parts = append(parts, args.ExtraOptions...)
	return strings.Join(parts, " ")
}
