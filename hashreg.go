package rpmverify

// Register the hash implementations RPM signatures actually use. Imported
// for side effect only: each of these calls crypto.RegisterHash in its
// init, which is what makes crypto.Hash.Available() and crypto.Hash.New()
// work for that algorithm.
import (
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
)
