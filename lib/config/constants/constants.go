package constants

const (
	// TimestampColumn is maintained on every written row unless disabled per import.
	TimestampColumn = "_timestamp"
	// StagingTablePrefix marks the ephemeral tables an import creates.
	StagingTablePrefix = "__stg"
)

// ExporterKind is used for the Telemetry package
type ExporterKind string

const (
	Datadog ExporterKind = "datadog"
)

type DestinationKind string

const (
	MySQL     DestinationKind = "mysql"
	Redshift  DestinationKind = "redshift"
	Snowflake DestinationKind = "snowflake"
)

var validDestinations = []DestinationKind{
	MySQL,
	Redshift,
	Snowflake,
}

func IsValidDestination(destination DestinationKind) bool {
	for _, validDest := range validDestinations {
		if destination == validDest {
			return true
		}
	}

	return false
}
