package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStorage struct {
	objects map[string][]byte
	fail    bool
}

func (f *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if f.fail {
		return "", errors.New("bucket unreachable")
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[objectName] = b
	return objectName, nil
}

func (f *fakeStorage) GetPublicURL(objectName string) string {
	return "https://cdn.test/media/" + objectName
}

func TestMediaService_Upload(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{}}
	svc := NewMediaService(storage).(*mediaServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }

	out, err := svc.Upload(context.Background(), aliceAddress, "Shot.PNG", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", out.MimeType)
	assert.Contains(t, out.ObjectKey, "2026/03/04/")
	assert.Contains(t, out.ObjectKey, ".png")
	assert.Equal(t, "https://cdn.test/media/"+out.ObjectKey, out.URL)
	assert.Equal(t, pngHeader, storage.objects[out.ObjectKey], "upload must start from the first byte")
}

func TestMediaService_Rejections(t *testing.T) {
	ctx := context.Background()
	text := []byte("just some text")

	_, err := NewMediaService(nil).Upload(ctx, aliceAddress, "a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, ErrMediaDisabled)

	svc := NewMediaService(&fakeStorage{objects: map[string][]byte{}})
	_, err = svc.Upload(ctx, "", "a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Upload(ctx, aliceAddress, "a.txt", bytes.NewReader(text), int64(len(text)))
	assert.ErrorIs(t, err, ErrFileNotSupported)

	_, err = svc.Upload(ctx, aliceAddress, "a.png", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrParamInvalid)

	failing := NewMediaService(&fakeStorage{objects: map[string][]byte{}, fail: true})
	_, err = failing.Upload(ctx, aliceAddress, "a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, UnExpectedError)
}
