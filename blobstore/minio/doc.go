// Package minio stores catalog documents in any S3-compatible object store
// reachable through minio-go (MinIO, Ceph, SeaweedFS, Garage).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    return err
//	}
//	cat, err := colmeta.Open(ctx, colmeta.Remote(miniostore.NewStore(client, "metadata", "prod/")))
//
// Blob names are joined to the root prefix; a missing object maps to
// blobstore.ErrNotFound.
package minio
