package utils

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var (
	S3Client        s3iface.S3API
	S3Bucket        string
	S3Region        string
	CloudFrontURL   string
	UseLocalStorage bool = true // true = local, false = S3
)

func InitS3(bucket, region, cloudfrontURL string) error {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return err
	}

	SetS3Client(s3.New(sess), bucket, region, cloudfrontURL)
	return nil
}

// SetS3Client switches uploads to S3 using the given client.
func SetS3Client(client s3iface.S3API, bucket, region, cloudfrontURL string) {
	S3Client = client
	S3Bucket = bucket
	S3Region = region
	CloudFrontURL = strings.TrimSuffix(cloudfrontURL, "/")
	UseLocalStorage = false
}

// UploadFile stores an uploaded file and returns its public URL and stored name.
func UploadFile(file *multipart.FileHeader) (string, string, error) {
	if UseLocalStorage {
		return UploadToLocal(file)
	}
	return UploadToS3(file)
}

func UploadToS3(file *multipart.FileHeader) (string, string, error) {
	if S3Client == nil {
		return "", "", fmt.Errorf("S3 not initialized")
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	filename := UniqueFileName(file.Filename)
	key := fmt.Sprintf("%s/%s/%s", ImagesFolder, time.Now().Format("2006/01"), filename)

	_, err = S3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(S3Bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", "", err
	}

	return s3PublicURL(key), filename, nil
}

func s3PublicURL(key string) string {
	if CloudFrontURL != "" {
		return CloudFrontURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", S3Bucket, S3Region, key)
}

func DeleteFile(url string) error {
	if UseLocalStorage {
		return DeleteFromLocal(url)
	}
	return DeleteFromS3(url)
}

func DeleteFromS3(fileURL string) error {
	if S3Client == nil {
		return fmt.Errorf("S3 not initialized")
	}

	key, err := extractKeyFromURL(fileURL)
	if err != nil {
		return err
	}

	_, err = S3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(S3Bucket),
		Key:    aws.String(key),
	})

	return err
}

// extractKeyFromURL turns https://bucket.s3.region.amazonaws.com/images/2024/01/x.jpg
// (or the CloudFront equivalent) into images/2024/01/x.jpg.
func extractKeyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid S3 URL: %v", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("S3 URL has no object key: %s", fileURL)
	}
	return key, nil
}

func GetStorageMode() string {
	if UseLocalStorage {
		return "local"
	}
	return "s3"
}

func SetStorageMode(useLocal bool) {
	UseLocalStorage = useLocal
}
