// Package s3 stores catalog documents in Amazon S3 with aws-sdk-go-v2.
//
// New loads the default AWS configuration; NewStore accepts any Client, which
// is what the unit tests use to mock the service:
//
//	store, err := s3.New(ctx, "metadata", s3.WithPrefix("prod/"), s3.WithRegion("eu-central-1"))
//	if err != nil {
//	    return err
//	}
//	cat, err := colmeta.Open(ctx, colmeta.Remote(store))
//
// Puts go through the s3 upload manager, List pages through every object
// under the prefix.
package s3
