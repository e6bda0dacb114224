//go:build unix

package shred_test

import (
	"context"
	"os"
	"testing"

	"github.com/itchio/wipe/shred"
	"github.com/itchio/wipe/target"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func noSpace() error {
	return &os.PathError{Op: "write", Path: "/dev/sdz", Err: unix.ENOSPC}
}

func Test_IsEndOfMedium(t *testing.T) {
	assert.True(t, shred.IsEndOfMedium(noSpace()))
	assert.True(t, shred.IsEndOfMedium(errors.Wrap(noSpace(), "writing block")))
	assert.False(t, shred.IsEndOfMedium(&os.PathError{Op: "write", Path: "/dev/sdz", Err: unix.EIO}))
	assert.False(t, shred.IsEndOfMedium(nil))
}

func Test_DeviceFullCompletes(t *testing.T) {
	s := &sink{capacity: 4096 + 100, failErr: noSpace()}
	sess := shred.NewSession(s, seeded(t, 5), target.KindDevice, testConsumer(t), shred.Options{
		BlockSize: 4096,
	})
	res, err := sess.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, shred.OutcomeEndOfMedium, res.Outcome)
	assert.True(t, res.Outcome.Completed())
	assert.True(t, errors.Is(res.Err, unix.ENOSPC))
	assert.EqualValues(t, 4196, res.Bytes)
}

func Test_FreeSpaceFullCompletes(t *testing.T) {
	s := &sink{capacity: 10, failErr: noSpace()}
	sess := shred.NewSession(s, seeded(t, 5), target.KindFreeSpace, nil, shred.Options{})
	res, err := sess.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, shred.OutcomeEndOfMedium, res.Outcome)
}

func Test_RegularFileFullFaults(t *testing.T) {
	s := &sink{capacity: 4096, failErr: noSpace()}
	sess := shred.NewSession(s, seeded(t, 5), target.KindRegular, testConsumer(t), shred.Options{
		BlockSize: 1000,
	})
	res, err := sess.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, shred.OutcomeFaulted, res.Outcome)
	assert.True(t, errors.Is(res.Err, unix.ENOSPC))
	assert.EqualValues(t, 4096, res.Bytes)
}
