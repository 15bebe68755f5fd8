package config

type S3Config struct {
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
}

type MinioConfig struct {
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"useSSL"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucketName"`
}

type GCSConfig struct {
	BucketName      string `yaml:"bucketName"`
	CredentialsFile string `yaml:"credentialsFile"`
	// GoogleAccessID and PrivateKeyFile are only needed when the credentials
	// in use cannot sign URLs themselves.
	GoogleAccessID string `yaml:"googleAccessId"`
	PrivateKeyFile string `yaml:"privateKeyFile"`
}

type TextractConfig struct {
	Region        string  `yaml:"region"`
	Endpoint      string  `yaml:"endpoint"`
	AccessKey     string  `yaml:"accessKey"`
	SecretKey     string  `yaml:"secretKey"`
	MinConfidence float32 `yaml:"minConfidence"`
}
