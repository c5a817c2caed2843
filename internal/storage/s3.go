// Package storage はオブジェクトストレージへのアクセスを提供する。
//
// 教材ファイルと応募添付の実体はS3互換ストレージに置き、
// アプリケーションは署名付きURLの発行のみを行う。
// ファイル本体がアプリケーションサーバーを経由することはない。
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore は署名付きURL発行のインターフェース。
type ObjectStore interface {
	// PresignPut はオブジェクトキーへのアップロード用署名付きPUT URLを発行する。
	PresignPut(ctx context.Context, key, contentType string) (string, error)

	// PresignGet はオブジェクトキーのダウンロード用署名付きGET URLを発行する。
	PresignGet(ctx context.Context, key string) (string, error)
}

// Config はS3クライアントの設定。
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string // MinIO等のS3互換ストレージ用。空の場合はAWSデフォルト。
	AccessKey    string
	SecretKey    string
	PresignTTL   time.Duration
}

// S3Store はS3互換ストレージに対するObjectStoreの実装。
type S3Store struct {
	presignClient *s3.PresignClient
	bucket        string
	presignTTL    time.Duration
}

// コンパイル時のインターフェース実装チェック
var _ ObjectStore = (*S3Store)(nil)

// NewS3Store はS3Storeの新しいインスタンスを生成する。
// AccessKeyが設定されている場合は静的クレデンシャルを使用し、
// 未設定の場合は環境のデフォルトクレデンシャルチェーンに委ねる。
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		// MinIOはパススタイルのバケットアドレッシングを要求する
		if cfg.BaseEndpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignTTL:    cfg.PresignTTL,
	}, nil
}

// PresignPut はアップロード用署名付きPUT URLを発行する。
func (s *S3Store) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presignClient.PresignPutObject(ctx, input, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("署名付きPUT URLの発行に失敗しました: %w", err)
	}

	return req.URL, nil
}

// PresignGet はダウンロード用署名付きGET URLを発行する。
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("署名付きGET URLの発行に失敗しました: %w", err)
	}

	return req.URL, nil
}

// NewObjectKey は日付パーティション付きの新しいオブジェクトキーを生成する。
// 例: materials/2026/08/28/9f3c...-syllabus.pdf
func NewObjectKey(prefix, fileName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s-%s", prefix, now.Year(), now.Month(), now.Day(), uuid.New(), fileName)
}
