package blobsource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureSource reads GTFS tables from blobs in a single container of an
// Azure Storage account. Authentication goes through a chained
// credential: environment variables, then workload identity, then the
// developer's local Azure CLI login — whichever succeeds first is used
// for the lifetime of the process.
type AzureSource struct {
	client    *azblob.Client
	container string
}

// NewAzure builds an AzureSource for the given storage account and
// container. It fails fast if no credential in the chain can be
// constructed or if the client cannot be created — this is a load-time
// failure, not a per-request one.
func NewAzure(account, container string) (*AzureSource, error) {
	cred, err := chainedCredential()
	if err != nil {
		return nil, fmt.Errorf("blobsource: building azure credential chain: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("blobsource: creating azure client: %w", err)
	}

	return &AzureSource{client: client, container: container}, nil
}

func chainedCredential() (azcore.TokenCredential, error) {
	var creds []azcore.TokenCredential

	if envCred, err := azidentity.NewEnvironmentCredential(nil); err == nil {
		creds = append(creds, envCred)
	}
	if wiCred, err := azidentity.NewWorkloadIdentityCredential(nil); err == nil {
		creds = append(creds, wiCred)
	}
	if cliCred, err := azidentity.NewAzureCLICredential(nil); err == nil {
		creds = append(creds, cliCred)
	}

	if len(creds) == 0 {
		return nil, errors.New("no azure credential source available (environment, workload identity, or az cli)")
	}

	return azidentity.NewChainedTokenCredential(creds, nil)
}

// Exists implements Source.
func (s *AzureSource) Exists(ctx context.Context, name string) (bool, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(name)
	_, err := blobClient.GetProperties(ctx, nil)
	if err == nil {
		return true, nil
	}
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("blobsource: checking %s: %w", name, err)
}

// Open implements Source.
func (s *AzureSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blobsource: downloading %s: %w", name, err)
	}
	return resp.Body, nil
}
