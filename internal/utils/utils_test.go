package utils

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

// ========== FILE NAME TESTS ==========

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":           "photo.jpg",
		"my holiday pic.png":  "my_holiday_pic.png",
		"../../etc/passwd":    "passwd",
		`C:\fakepath\a b.gif`: "a_b.gif",
		"صورة.jpg":            "file.jpg",
		"noext":               "noext",
		".hidden":             "file.hidden",
		"":                    "file",
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, SafeFileName(in))
		})
	}
}

func TestUniqueFileName(t *testing.T) {
	a := UniqueFileName("photo.png")
	b := UniqueFileName("photo.png")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_photo.png"))
	assert.Len(t, a, 36+len("_photo.png"))
}

// ========== LOCAL STORAGE TESTS ==========

func TestLocalUploadAndDelete(t *testing.T) {
	prevBase, prevMode := UploadBasePath, UseLocalStorage
	t.Cleanup(func() { UploadBasePath, UseLocalStorage = prevBase, prevMode })

	require.NoError(t, InitLocalStorage(t.TempDir()))
	SetStorageMode(true)

	url, name, err := UploadFile(fileHeader(t, "logo.png", []byte("data")))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/"+name, url)
	assert.True(t, FileExists(url))

	stored, err := os.ReadFile(filepath.Join(UploadBasePath, ImagesFolder, name))
	require.NoError(t, err)
	assert.Equal(t, "data", string(stored))

	require.NoError(t, DeleteFile(url))
	assert.False(t, FileExists(url))

	t.Run("Error - Already deleted", func(t *testing.T) {
		assert.Error(t, DeleteFromLocal(url))
	})

	t.Run("Error - Path traversal", func(t *testing.T) {
		assert.Error(t, DeleteFromLocal("/uploads/../../secret.txt"))
	})

	t.Run("Error - Not an upload URL", func(t *testing.T) {
		assert.Error(t, DeleteFromLocal("/etc/passwd"))
	})
}

// ========== S3 TESTS ==========

type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	body    []byte
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func useFakeS3(t *testing.T, cloudfront string) *fakeS3 {
	prevClient, prevBucket, prevRegion, prevCF, prevMode := S3Client, S3Bucket, S3Region, CloudFrontURL, UseLocalStorage
	t.Cleanup(func() {
		S3Client, S3Bucket, S3Region, CloudFrontURL, UseLocalStorage = prevClient, prevBucket, prevRegion, prevCF, prevMode
	})

	fake := &fakeS3{}
	SetS3Client(fake, "food-bucket", "eu-south-1", cloudfront)
	return fake
}

func TestS3Upload(t *testing.T) {
	t.Run("Success - Bucket URL", func(t *testing.T) {
		fake := useFakeS3(t, "")

		url, name, err := UploadFile(fileHeader(t, "Flour Sack.png", []byte("png-bytes")))
		require.NoError(t, err)

		require.Len(t, fake.puts, 1)
		key := aws.StringValue(fake.puts[0].Key)
		assert.True(t, strings.HasPrefix(key, "images/"))
		assert.True(t, strings.HasSuffix(key, "/"+name))
		assert.Equal(t, "food-bucket", aws.StringValue(fake.puts[0].Bucket))
		assert.Equal(t, "https://food-bucket.s3.eu-south-1.amazonaws.com/"+key, url)
		assert.Equal(t, "png-bytes", string(fake.body))
		assert.Equal(t, "s3", GetStorageMode())
	})

	t.Run("Success - CloudFront URL", func(t *testing.T) {
		fake := useFakeS3(t, "https://cdn.example.com/")

		url, _, err := UploadFile(fileHeader(t, "a.jpg", []byte("x")))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/"+aws.StringValue(fake.puts[0].Key), url)
	})
}

func TestS3Delete(t *testing.T) {
	fake := useFakeS3(t, "")

	err := DeleteFile("https://food-bucket.s3.eu-south-1.amazonaws.com/images/2024/05/a.jpg")
	require.NoError(t, err)
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, "images/2024/05/a.jpg", aws.StringValue(fake.deletes[0].Key))

	t.Run("Error - URL without key", func(t *testing.T) {
		assert.Error(t, DeleteFile("https://food-bucket.s3.eu-south-1.amazonaws.com/"))
	})
}

// ========== JWT TESTS ==========

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "admin", "admin")
	require.NoError(t, err)

	id, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseJWTRejectsTampering(t *testing.T) {
	token, err := GenerateJWT(1, "admin", "admin")
	require.NoError(t, err)

	_, err = ParseJWT(token[:len(token)-2] + "xx")
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token")
	assert.Error(t, err)
}

func TestParseClaims(t *testing.T) {
	token, err := GenerateJWT(7, "editor", "admin")
	require.NoError(t, err)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "editor", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, time.Minute)

	sign := func(method jwt.SigningMethod, key interface{}, c Claims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return s
	}

	t.Run("Error - expired", func(t *testing.T) {
		c := *claims
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := ParseJWT(sign(jwt.SigningMethodHS256, signingKey(), c))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Error - no expiry", func(t *testing.T) {
		c := *claims
		c.ExpiresAt = nil
		_, err := ParseJWT(sign(jwt.SigningMethodHS256, signingKey(), c))
		assert.Error(t, err)
	})

	t.Run("Error - other HMAC size", func(t *testing.T) {
		_, err := ParseJWT(sign(jwt.SigningMethodHS512, signingKey(), *claims))
		assert.Error(t, err)
	})

	t.Run("Error - unsigned", func(t *testing.T) {
		_, err := ParseJWT(sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, *claims))
		assert.Error(t, err)
	})

	t.Run("Error - subject is not an id", func(t *testing.T) {
		c := *claims
		c.Subject = "admin"
		_, err := ParseJWT(sign(jwt.SigningMethodHS256, signingKey(), c))
		assert.Error(t, err)
	})
}

func TestValidateJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, ValidateJWTSecret())

	t.Setenv("JWT_SECRET", "short")
	assert.Error(t, ValidateJWTSecret())

	t.Setenv("JWT_SECRET", defaultTestSecret)
	assert.Error(t, ValidateJWTSecret())

	t.Setenv("JWT_SECRET", strings.Repeat("k", 40))
	assert.NoError(t, ValidateJWTSecret())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
