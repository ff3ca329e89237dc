package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	b, err := c.Marshal(&VerifyRequest{Token: "t", Email: "a@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t","email":"a@x.com"}`, string(b))

	var got VerifyRequest
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, "a@x.com", got.Email)
}

func TestServiceDescCoversServer(t *testing.T) {
	assert.Len(t, AccountServiceDesc.Methods, 8)
	for _, m := range AccountServiceDesc.Methods {
		assert.NotNil(t, m.Handler, m.MethodName)
	}
}
