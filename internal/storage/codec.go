package storage

import (
	"encoding/json"
	"errors"

	"luxgen/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeResult(r model.OptimizationResult) ([]byte, error) {
	r.SchemaVersion = CurrentSchemaVersion
	r.CodecVersion = CurrentCodecVersion
	return json.Marshal(r)
}

func DecodeResult(data []byte) (model.OptimizationResult, error) {
	var result model.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.OptimizationResult{}, err
	}
	if err := checkVersion(result.VersionedRecord); err != nil {
		return model.OptimizationResult{}, err
	}
	return result, nil
}

func EncodeConvergence(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeConvergence(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeGenerationStats(stats []model.GenerationStats) ([]byte, error) {
	return json.Marshal(stats)
}

func DecodeGenerationStats(data []byte) ([]model.GenerationStats, error) {
	var stats []model.GenerationStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func checkVersion(record model.VersionedRecord) error {
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
