package tunnel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestVehicle(t *testing.T, name string, dir Direction, kind Kind, speed int) *Vehicle {
	t.Helper()
	v, err := NewVehicle(name, dir, kind, FixedSpeed(speed), nil)
	require.NoError(t, err)
	return v
}

func TestBasicTunnel_AdmitsUpToMaxCars(t *testing.T) {
	tun := NewBasicTunnel("t0", 3)

	cars := make([]*Vehicle, 4)
	for i := range cars {
		cars[i] = newTestVehicle(t, fmt.Sprintf("car-%d", i), DirectionNorth, KindCar, i+1)
	}

	require.True(t, tun.TryEnter(cars[0]))
	require.True(t, tun.TryEnter(cars[1]))
	require.True(t, tun.TryEnter(cars[2]))
	require.False(t, tun.TryEnter(cars[3]), "fourth car exceeds capacity")
	require.Equal(t, 3, tun.Occupancy())

	tun.Exit(cars[0])
	require.True(t, tun.TryEnter(cars[3]), "exit frees a slot")
}

func TestBasicTunnel_RejectsOppositeDirection(t *testing.T) {
	tun := NewBasicTunnel("t0", 3)

	north := newTestVehicle(t, "north-car", DirectionNorth, KindCar, 5)
	south := newTestVehicle(t, "south-car", DirectionSouth, KindCar, 5)

	require.True(t, tun.TryEnter(north))
	require.False(t, tun.TryEnter(south), "occupied tunnel admits one direction only")

	tun.Exit(north)
	require.True(t, tun.TryEnter(south), "an empty tunnel takes either direction")
}

func TestBasicTunnel_SledTravelsAlone(t *testing.T) {
	tun := NewBasicTunnel("t0", 3)

	car := newTestVehicle(t, "car-0", DirectionNorth, KindCar, 5)
	sled := newTestVehicle(t, "sled-0", DirectionNorth, KindSled, 2)
	sled2 := newTestVehicle(t, "sled-1", DirectionNorth, KindSled, 2)

	require.True(t, tun.TryEnter(sled))
	require.False(t, tun.TryEnter(car), "no car may share with a sled")
	require.False(t, tun.TryEnter(sled2), "no second sled either")

	tun.Exit(sled)
	require.True(t, tun.TryEnter(car))
	require.False(t, tun.TryEnter(sled2), "no sled may join a car")
}

func TestBasicTunnel_DuplicateEntryRefused(t *testing.T) {
	tun := NewBasicTunnel("t0", 3)
	car := newTestVehicle(t, "car-0", DirectionNorth, KindCar, 5)

	require.True(t, tun.TryEnter(car))
	require.False(t, tun.TryEnter(car), "an occupant cannot enter twice")
}

func TestBasicTunnel_ExitOfStrangerIgnored(t *testing.T) {
	tun := NewBasicTunnel("t0", 3)
	car := newTestVehicle(t, "car-0", DirectionNorth, KindCar, 5)
	stranger := newTestVehicle(t, "car-1", DirectionNorth, KindCar, 5)

	require.True(t, tun.TryEnter(car))
	tun.Exit(stranger)
	require.Equal(t, 1, tun.Occupancy(), "exiting a non-occupant must not disturb bookkeeping")
}
