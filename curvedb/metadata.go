package curvedb

import (
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

// migration is a function which takes a prior outdated version of the database
// instance and mutates the key/bucket structure to arrive at a more up-to-date
// version of the database.
type migration func(tx *bbolt.Tx) error

var (
	// metadataBucketKey stores all the metadata concerning the state of the
	// database.
	metadataBucketKey = []byte("metadata")

	// dbVersionKey is the key used for storing/retrieving the current
	// database version.
	dbVersionKey = []byte("version")

	// ErrDBReversion is returned when detecting an attempt to revert to a
	// prior database version.
	ErrDBReversion = errors.New("cannot revert to prior version")

	// dbVersions is storing all versions of database. If current version
	// of database don't match with latest version this list will be used
	// for retrieving all migration function that are need to apply to the
	// current db.
	dbVersions []migration

	latestDBVersion = uint32(len(dbVersions))
)

// getDBVersion retrieves the current database version.
func getDBVersion(bucket *bbolt.Bucket) (uint32, error) {
	versionBytes := bucket.Get(dbVersionKey)
	if versionBytes == nil {
		return 0, errors.New("database version not found")
	}
	return byteOrder.Uint32(versionBytes), nil
}

// setDBVersion updates the current database version.
func setDBVersion(bucket *bbolt.Bucket, version uint32) error {
	var b [4]byte
	byteOrder.PutUint32(b[:], version)
	return bucket.Put(dbVersionKey, b[:])
}

// getBucket retrieves the bucket with the given key.
func getBucket(tx *bbolt.Tx, key []byte) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(key)
	if bucket == nil {
		return nil, fmt.Errorf("bucket \"%v\" does not exist",
			string(key))
	}
	return bucket, nil
}

// syncVersions function is used for safe db version synchronization. It
// applies the given migration functions to the current database and recovers
// the previous state of db if at least one error/panic appeared during
// migration. The latest version is the number of migrations.
func syncVersions(db *bbolt.DB, versions []migration) error {
	latestVersion := uint32(len(versions))


	var currentVersion uint32
	err := db.View(func(tx *bbolt.Tx) error {
		metadata, err := getBucket(tx, metadataBucketKey)
		if err != nil {
			return err
		}
		currentVersion, err = getDBVersion(metadata)
		return err
	})
	if err != nil {
		return err
	}

	log.Infof("Checking for schema update: latest_version=%v, "+
		"db_version=%v", latestVersion, currentVersion)

	switch {
	// If the database reports a higher version that we are aware of, the
	// user is probably trying to revert to a prior version of tierfee. We
	// fail here to prevent reversions and unintended corruption.
	case currentVersion > latestVersion:
		log.Errorf("Refusing to revert from db_version=%d to "+
			"lower version=%d", currentVersion, latestVersion)

		return ErrDBReversion

	// If the current version is behind the latest version, we'll apply
	// all the pending migrations within a single transaction.
	case currentVersion < latestVersion:
		log.Infof("Performing database schema migration")

		return db.Update(func(tx *bbolt.Tx) error {
			migrations := versions[currentVersion:]
			for i, migration := range migrations {
				log.Infof("Applying migration #%d",
					currentVersion+uint32(i)+1)

				if err := migration(tx); err != nil {
					log.Errorf("Unable to apply migration "+
						"#%d: %v",
						currentVersion+uint32(i)+1,
						err)
					return err
				}
			}

			metadata, err := getBucket(tx, metadataBucketKey)
			if err != nil {
				return err
			}
			return setDBVersion(metadata, latestVersion)
		})

	// Otherwise, we're up to date and there's nothing to do.
	default:
		return nil
	}
}
