package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

func (c *Config) applyEnv() {
	envString("PDFTEXT_ADDR", &c.Server.Addr)
	envList("PDFTEXT_ALLOW_ORIGINS", &c.Server.AllowOrigins)

	envString("PDFTEXT_LOG_LEVEL", &c.Log.Level)
	envString("PDFTEXT_LOG_ENCODING", &c.Log.Encoding)
	envList("PDFTEXT_LOG_OUTPUTS", &c.Log.OutputPaths)

	envString("PDFTEXT_TEMP_DIR", &c.Files.TempDir)
	envInt64("PDFTEXT_MAX_UPLOAD_SIZE", &c.Files.MaxUploadSize)

	envString("PDFTEXT_OCR_ENGINE", &c.OCR.Engine)
	envList("PDFTEXT_OCR_LANGUAGES", &c.OCR.Languages)
	envString("PDFTEXT_OCR_MARKER", &c.OCR.Marker)
	envBool("PDFTEXT_OCR_PREPROCESS", &c.OCR.Preprocess)
	envFloat("PDFTEXT_OCR_DENOISE", &c.OCR.Denoise)

	envString("PDFTEXT_STORE_BACKEND", &c.Store.Backend)
	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	envBool("PDFTEXT_ASYNC", &c.Queue.Enabled)
	envInt("PDFTEXT_WORKER_CONCURRENCY", &c.Queue.Concurrency)

	envString("PDFTEXT_CLOUD_BACKEND", &c.Cloud.Backend)
	envDuration("PDFTEXT_PRESIGN_EXPIRY", &c.Cloud.PresignExpiry)

	envString("AWS_S3_BUCKET_NAME", &c.S3.BucketName)
	envString("AWS_REGION", &c.S3.Region)
	envString("AWS_ENDPOINT", &c.S3.Endpoint)
	envString("AWS_ACCESS_KEY", &c.S3.AccessKey)
	envString("AWS_SECRET_KEY", &c.S3.SecretKey)

	envString("AWS_REGION", &c.Textract.Region)
	envString("AWS_ENDPOINT", &c.Textract.Endpoint)
	envString("AWS_ACCESS_KEY", &c.Textract.AccessKey)
	envString("AWS_SECRET_KEY", &c.Textract.SecretKey)

	envString("MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	envString("MINIO_SECRET_KEY", &c.Minio.SecretKey)
	envString("MINIO_ENDPOINT", &c.Minio.Endpoint)
	envBool("MINIO_USE_SSL", &c.Minio.UseSSL)
	envString("MINIO_REGION", &c.Minio.Region)
	envString("MINIO_BUCKET_NAME", &c.Minio.BucketName)

	envString("GCS_BUCKET_NAME", &c.GCS.BucketName)
	envString("GOOGLE_APPLICATION_CREDENTIALS", &c.GCS.CredentialsFile)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = n
}

func envInt64(key string, dst *int64) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = n
}

func envFloat(key string, dst *float64) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = f
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = b
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = d
}
