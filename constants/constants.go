package constants

import "os"

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetMediaDir is the root of the tab library. Unlike the other settings it
// has no sensible default.
func GetMediaDir() (string, bool) {
	path := os.Getenv("MEDIA_PATH")
	return path, path != ""
}

func GetDynamoEndpoint() string {
	return getenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("DYNAMODB_REGION", "localhost")
}

func GetMetadataTable() string {
	return getenv("DYNAMODB_TABLE", "tabdex-metadata")
}

func GetListenAddr() string {
	return getenv("LISTEN_ADDR", ":8080")
}

func GetLogLevel() string {
	return getenv("LOG_LEVEL", "info")
}

// TabExtension is the only file type the library walker picks up.
const TabExtension = ".gp3"

// DynamoDB caps a BatchWriteItem request at 25 puts.
const BatchWriteSize = 25

// DynamoDB caps a BatchGetItem request at 100 keys.
const BatchGetSize = 100
