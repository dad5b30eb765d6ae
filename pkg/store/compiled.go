package store

import (
	bolt "go.etcd.io/bbolt"

	. "src.tsrepl.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize compile cache table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCompile))
		return err
	}
}

// GetCompiled returns the compiled code cached under key.
func (s *dbStore) GetCompiled(key string) (string, error) {
	var code string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketCompile)).Get([]byte(key))
		if v == nil {
			return ErrNoCompiled
		}
		code = string(v)
		return nil
	})
	return code, err
}

// PutCompiled caches compiled code under key.
func (s *dbStore) PutCompiled(key, code string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCompile)).Put([]byte(key), []byte(code))
	})
}
