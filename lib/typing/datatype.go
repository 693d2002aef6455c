package typing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Category string

const (
	CategoryString   Category = "string"
	CategoryInteger  Category = "integer"
	CategoryDecimal  Category = "decimal"
	CategoryBoolean  Category = "boolean"
	CategoryTemporal Category = "temporal"
	CategoryOther    Category = "other"
)

// DataType is a normalized view of a backend type string such as `varchar(255)` or `int(11) unsigned`.
type DataType struct {
	// Base is the lowercased type name without parameters or modifiers, e.g. `character varying`.
	Base      string
	Category  Category
	Length    *int
	Precision *int
	Scale     *int
	Unsigned  bool
}

var dataTypeRegex = regexp.MustCompile(`^\s*([a-z_][a-z0-9_ ]*?)\s*(?:\(([^)]*)\))?\s*((?:unsigned|signed|zerofill|without time zone|with time zone|\s)*)$`)

var categories = map[string]Category{
	"char":              CategoryString,
	"character":         CategoryString,
	"varchar":           CategoryString,
	"character varying": CategoryString,
	"nchar":             CategoryString,
	"nvarchar":          CategoryString,
	"bpchar":            CategoryString,
	"text":              CategoryString,
	"tinytext":          CategoryString,
	"mediumtext":        CategoryString,
	"longtext":          CategoryString,
	"string":            CategoryString,
	"binary":            CategoryString,
	"varbinary":         CategoryString,
	"enum":              CategoryString,
	"set":               CategoryString,

	"tinyint":   CategoryInteger,
	"smallint":  CategoryInteger,
	"mediumint": CategoryInteger,
	"int":       CategoryInteger,
	"integer":   CategoryInteger,
	"bigint":    CategoryInteger,
	"int2":      CategoryInteger,
	"int4":      CategoryInteger,
	"int8":      CategoryInteger,
	"byteint":   CategoryInteger,

	"decimal":          CategoryDecimal,
	"dec":              CategoryDecimal,
	"numeric":          CategoryDecimal,
	"number":           CategoryDecimal,
	"fixed":            CategoryDecimal,
	"float":            CategoryDecimal,
	"float4":           CategoryDecimal,
	"float8":           CategoryDecimal,
	"double":           CategoryDecimal,
	"double precision": CategoryDecimal,
	"real":             CategoryDecimal,

	"bool":    CategoryBoolean,
	"boolean": CategoryBoolean,

	"date":          CategoryTemporal,
	"time":          CategoryTemporal,
	"timetz":        CategoryTemporal,
	"datetime":      CategoryTemporal,
	"timestamp":     CategoryTemporal,
	"timestamptz":   CategoryTemporal,
	"timestamp_ntz": CategoryTemporal,
	"timestamp_ltz": CategoryTemporal,
	"timestamp_tz":  CategoryTemporal,
	"year":          CategoryTemporal,
}

// ParseDataType normalizes a type string. Character types expose their length, decimal types their precision and scale.
// Integer display widths like the 11 in `int(11)` are discarded.
func ParseDataType(raw string) (DataType, error) {
	matches := dataTypeRegex.FindStringSubmatch(strings.ToLower(raw))
	if matches == nil {
		return DataType{}, NewUnsupportedDataTypeError(fmt.Sprintf("unable to parse data type %q", raw))
	}

	base := strings.Join(strings.Fields(matches[1]), " ")
	dataType := DataType{
		Base:     base,
		Category: categoryFor(base),
		Unsigned: strings.Contains(matches[3], "unsigned"),
	}

	params, ok := parseParameters(matches[2])
	if !ok || len(params) == 0 {
		// Parameters like enum('a','b') are not sizes.
		return dataType, nil
	}

	switch dataType.Category {
	case CategoryInteger, CategoryBoolean:
	case CategoryDecimal:
		dataType.Precision = &params[0]
		if len(params) > 1 {
			dataType.Scale = &params[1]
		}
	case CategoryTemporal:
		dataType.Precision = &params[0]
	default:
		dataType.Length = &params[0]
	}

	return dataType, nil
}

func categoryFor(base string) Category {
	if category, ok := categories[base]; ok {
		return category
	}
	return CategoryOther
}

func parseParameters(value string) ([]int, bool) {
	if strings.TrimSpace(value) == "" {
		return nil, true
	}

	var params []int
	for _, part := range strings.Split(value, ",") {
		param, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		params = append(params, param)
	}

	return params, true
}

// IsCharacter returns true when values can be assigned from text without a cast.
func (d DataType) IsCharacter() bool {
	return d.Category == CategoryString
}

func (d DataType) IsBoolean() bool {
	return d.Category == CategoryBoolean
}
