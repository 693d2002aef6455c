package config

type MySQL struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// QueryTimeoutSeconds sets `max_execution_time` for the session, zero leaves the server default.
	QueryTimeoutSeconds int `yaml:"queryTimeoutSeconds"`
}

type Redshift struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Bucket receives local files before they are copied, remote `s3://` files are copied directly.
	Bucket           string `yaml:"bucket"`
	OptionalS3Prefix string `yaml:"optionalS3Prefix"`
	// https://docs.aws.amazon.com/redshift/latest/dg/copy-parameters-authorization.html
	CredentialsClause   string `yaml:"credentialsClause"`
	QueryTimeoutSeconds int    `yaml:"queryTimeoutSeconds"`
	DisableSSL          bool   `yaml:"disableSSL"`
}

type Snowflake struct {
	AccountID string `yaml:"account"`
	Username  string `yaml:"username"`
	// If pathToPrivateKey is specified, the password field will be ignored
	PathToPrivateKey string `yaml:"pathToPrivateKey,omitempty"`
	Password         string `yaml:"password,omitempty"`

	Warehouse            string            `yaml:"warehouse"`
	Database             string            `yaml:"database"`
	Role                 string            `yaml:"role"`
	Region               string            `yaml:"region"`
	Host                 string            `yaml:"host"`
	Application          string            `yaml:"application"`
	QueryTimeoutSeconds  int               `yaml:"queryTimeoutSeconds"`
	AdditionalParameters map[string]string `yaml:"additionalParameters,omitempty"`
}

type AWS struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	SessionToken    string `yaml:"sessionToken"`
}

type GCS struct {
	// PathToCredentials is _optional_ if you have GOOGLE_APPLICATION_CREDENTIALS set as an env var
	PathToCredentials string `yaml:"pathToCredentials"`
}
