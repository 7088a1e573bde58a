package als

// TrackType distinguishes the kinds of tracks a Live set can contain.
type TrackType string

const (
	TrackMidi   TrackType = "midi"
	TrackAudio  TrackType = "audio"
	TrackReturn TrackType = "return"
	TrackGroup  TrackType = "group"
	TrackMaster TrackType = "master"
)

// DeviceCategory is the closed classification every device resolves to.
type DeviceCategory string

const (
	CategoryInstrument DeviceCategory = "Instrument"
	CategoryEQ         DeviceCategory = "EQ"
	CategoryCompressor DeviceCategory = "Compressor"
	CategoryLimiter    DeviceCategory = "Limiter"
	CategorySaturator  DeviceCategory = "Saturator"
	CategoryReverb     DeviceCategory = "Reverb"
	CategoryDelay      DeviceCategory = "Delay"
	CategoryModulation DeviceCategory = "Modulation"
	CategoryFilter     DeviceCategory = "Filter"
	CategoryUtility    DeviceCategory = "Utility"
	CategoryThirdParty DeviceCategory = "ThirdParty"
	CategoryUnknown    DeviceCategory = "Unknown"
)

// Categories returns every category in a stable order, for help and
// completion output.
func Categories() []DeviceCategory {
	return []DeviceCategory{
		CategoryInstrument, CategoryEQ, CategoryCompressor, CategoryLimiter,
		CategorySaturator, CategoryReverb, CategoryDelay, CategoryModulation,
		CategoryFilter, CategoryUtility, CategoryThirdParty, CategoryUnknown,
	}
}

// ParamKey is the closed per-category parameter vocabulary. Parameters the
// vocabulary does not cover keep their raw name under ParamOpaque.
type ParamKey string

const (
	ParamRatio     ParamKey = "Ratio"
	ParamThreshold ParamKey = "Threshold"
	ParamAttack    ParamKey = "Attack"
	ParamRelease   ParamKey = "Release"
	ParamGain      ParamKey = "Gain"
	ParamCeiling   ParamKey = "Ceiling"
	ParamDrive     ParamKey = "Drive"
	ParamFreq      ParamKey = "Freq"
	ParamQ         ParamKey = "Q"
	ParamDecay     ParamKey = "Decay"
	ParamPreDelay  ParamKey = "PreDelay"
	ParamTime      ParamKey = "Time"
	ParamFeedback  ParamKey = "Feedback"
	ParamDryWet    ParamKey = "DryWet"
	ParamOpaque    ParamKey = "Opaque"
)

// Param is one flattened device parameter in document order.
type Param struct {
	Key   ParamKey
	Name  string // raw element name as read from the document
	Value float64
	Raw   string // raw attribute text the value was parsed from
}

// Device is one unit in a track's device chain. Chain order is semantically
// significant and preserved exactly as read.
type Device struct {
	Category DeviceCategory
	Type     string // raw element name, e.g. "Eq8"
	Name     string // user-assigned name, empty when unset
	Plugin   string // wrapped plugin name for hosted devices
	Enabled  bool
	Params   []Param
}

// DisplayName is the most specific name available for a device.
func (d Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Plugin != "" {
		return d.Plugin
	}
	return d.Type
}

// Param returns the first parameter matching key, if any.
func (d Device) Param(key ParamKey) (Param, bool) {
	for _, p := range d.Params {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

type Track struct {
	ID       int
	Name     string
	Type     TrackType
	VolumeDB float64
	Pan      float64
	Muted    bool
	Soloed   bool
	Devices  []Device
}

// DisabledDevices counts chain entries that are switched off.
func (t Track) DisabledDevices() int {
	n := 0
	for _, d := range t.Devices {
		if !d.Enabled {
			n++
		}
	}
	return n
}

// Project is the fully parsed in-memory model of one Live set. It is
// immutable once parsed.
type Project struct {
	Name       string
	Creator    string
	Tempo      float64
	TimeSigNum int
	TimeSigDen int
	Tracks     []Track
}

// DeviceCount returns the total number of devices across all tracks.
func (p *Project) DeviceCount() int {
	n := 0
	for _, t := range p.Tracks {
		n += len(t.Devices)
	}
	return n
}

// DisabledDeviceCount returns the number of disabled devices across all tracks.
func (p *Project) DisabledDeviceCount() int {
	n := 0
	for _, t := range p.Tracks {
		n += t.DisabledDevices()
	}
	return n
}
