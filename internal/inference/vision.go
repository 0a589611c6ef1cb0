// Package inference wraps the external image-classification and
// text-generation models behind small call-in/response-out interfaces.
// Both are opaque collaborators: a failed construction at startup leaves
// the corresponding endpoint unavailable instead of crashing the process.
package inference

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/starford/nutriguide/internal/nutrition"
)

// ImageClassifier labels a food photo with a single food name.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte) (string, error)
}

// RekognitionClassifier implements ImageClassifier on AWS Rekognition
// label detection.
type RekognitionClassifier struct {
	client        *rekognition.Client
	maxLabels     int32
	minConfidence float32
}

// NewRekognitionClassifier builds a classifier using the default AWS
// credential chain and the given region.
func NewRekognitionClassifier(ctx context.Context, region string) (*RekognitionClassifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("inference: load aws config: %w", err)
	}
	return &RekognitionClassifier{
		client:        rekognition.NewFromConfig(cfg),
		maxLabels:     5,
		minConfidence: 75,
	}, nil
}

// Classify returns the top detected label as a normalized food name.
func (r *RekognitionClassifier) Classify(ctx context.Context, image []byte) (string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return "", fmt.Errorf("inference: detect labels: %w", err)
	}
	if len(out.Labels) == 0 || out.Labels[0].Name == nil {
		return "", fmt.Errorf("inference: no labels detected")
	}
	return nutrition.Normalize(*out.Labels[0].Name), nil
}
