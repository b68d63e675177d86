package dicomtag

// Tags used by the decoder and its callers. The full table is tagDictData.
var (
	CommandField                   = Tag{0x0000, 0x0100}
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
	SpecificCharacterSet           = Tag{0x0008, 0x0005}
	ImageType                      = Tag{0x0008, 0x0008}
	RecognitionCode                = Tag{0x0008, 0x0010}
	SOPClassUID                    = Tag{0x0008, 0x0016}
	SOPInstanceUID                 = Tag{0x0008, 0x0018}
	StudyDate                      = Tag{0x0008, 0x0020}
	StudyTime                      = Tag{0x0008, 0x0030}
	QueryRetrieveLevel             = Tag{0x0008, 0x0052}
	Modality                       = Tag{0x0008, 0x0060}
	InstitutionName                = Tag{0x0008, 0x0080}
	InstitutionAddress             = Tag{0x0008, 0x0081}
	CodeValue                      = Tag{0x0008, 0x0100}
	CodeMeaning                    = Tag{0x0008, 0x0104}
	ReferencedImageSequence        = Tag{0x0008, 0x1140}
	ReferencedSOPClassUID          = Tag{0x0008, 0x1150}
	ReferencedSOPInstanceUID       = Tag{0x0008, 0x1155}
	PatientName                    = Tag{0x0010, 0x0010}
	PatientID                      = Tag{0x0010, 0x0020}
	PatientBirthDate               = Tag{0x0010, 0x0030}
	PatientSex                     = Tag{0x0010, 0x0040}
	PatientComments                = Tag{0x0010, 0x4000}
	StudyInstanceUID               = Tag{0x0020, 0x000d}
	SeriesInstanceUID              = Tag{0x0020, 0x000e}
	InstanceNumber                 = Tag{0x0020, 0x0013}
	ImagePositionPatient           = Tag{0x0020, 0x0032}
	SamplesPerPixel                = Tag{0x0028, 0x0002}
	PhotometricInterpretation      = Tag{0x0028, 0x0004}
	PlanarConfiguration            = Tag{0x0028, 0x0006}
	NumberOfFrames                 = Tag{0x0028, 0x0008}
	FrameIncrementPointer          = Tag{0x0028, 0x0009}
	Rows                           = Tag{0x0028, 0x0010}
	Columns                        = Tag{0x0028, 0x0011}
	PixelSpacing                   = Tag{0x0028, 0x0030}
	BitsAllocated                  = Tag{0x0028, 0x0100}
	BitsStored                     = Tag{0x0028, 0x0101}
	HighBit                        = Tag{0x0028, 0x0102}
	PixelRepresentation            = Tag{0x0028, 0x0103}
	WindowCenter                   = Tag{0x0028, 0x1050}
	TextValue                      = Tag{0x0040, 0xa160}
	ContentSequence                = Tag{0x0040, 0xa730}
	PixelData                      = Tag{0x7fe0, 0x0010}
	Item                           = Tag{0xfffe, 0xe000}
	ItemDelimitationItem           = Tag{0xfffe, 0xe00d}
	SequenceDelimitationItem       = Tag{0xfffe, 0xe0dd}
)

// tagDictData is parsed by ReadDictionary. Columns: tag, VR, name, VM.
// Retired ACR-NEMA attributes are kept so that legacy files resolve in implicit VR.
const tagDictData = `# tag	VR	name	VM
(0000,0002)	UI	AffectedSOPClassUID	1
(0000,0100)	US	CommandField	1
(0000,0110)	US	MessageID	1
(0000,0800)	US	CommandDataSetType	1
(0000,0900)	US	Status	1
(0000,0902)	LO	ErrorComment	1
(0002,0000)	UL	FileMetaInformationGroupLength	1
(0002,0001)	OB	FileMetaInformationVersion	1
(0002,0002)	UI	MediaStorageSOPClassUID	1
(0002,0003)	UI	MediaStorageSOPInstanceUID	1
(0002,0010)	UI	TransferSyntaxUID	1
(0002,0012)	UI	ImplementationClassUID	1
(0002,0013)	SH	ImplementationVersionName	1
(0002,0016)	AE	SourceApplicationEntityTitle	1
(0008,0005)	CS	SpecificCharacterSet	1-n
(0008,0008)	CS	ImageType	2-n
(0008,0010)	SH	RecognitionCode	1
(0008,0012)	DA	InstanceCreationDate	1
(0008,0013)	TM	InstanceCreationTime	1
(0008,0014)	UI	InstanceCreatorUID	1
(0008,0016)	UI	SOPClassUID	1
(0008,0018)	UI	SOPInstanceUID	1
(0008,0020)	DA	StudyDate	1
(0008,0021)	DA	SeriesDate	1
(0008,0022)	DA	AcquisitionDate	1
(0008,0023)	DA	ContentDate	1
(0008,002A)	DT	AcquisitionDateTime	1
(0008,0030)	TM	StudyTime	1
(0008,0031)	TM	SeriesTime	1
(0008,0033)	TM	ContentTime	1
(0008,0040)	US	DataSetType	1
(0008,0041)	LO	DataSetSubtype	1
(0008,0050)	SH	AccessionNumber	1
(0008,0052)	CS	QueryRetrieveLevel	1
(0008,0056)	CS	InstanceAvailability	1
(0008,0060)	CS	Modality	1
(0008,0061)	CS	ModalitiesInStudy	1-n
(0008,0064)	CS	ConversionType	1
(0008,0070)	LO	Manufacturer	1
(0008,0080)	LO	InstitutionName	1
(0008,0081)	ST	InstitutionAddress	1
(0008,0090)	PN	ReferringPhysicianName	1
(0008,0094)	SH	ReferringPhysicianTelephoneNumbers	1-n
(0008,0100)	SH	CodeValue	1
(0008,0102)	SH	CodingSchemeDesignator	1
(0008,0104)	LO	CodeMeaning	1
(0008,0201)	SH	TimezoneOffsetFromUTC	1
(0008,1010)	SH	StationName	1
(0008,1030)	LO	StudyDescription	1
(0008,1032)	SQ	ProcedureCodeSequence	1
(0008,103E)	LO	SeriesDescription	1
(0008,1090)	LO	ManufacturerModelName	1
(0008,1111)	SQ	ReferencedPerformedProcedureStepSequence	1
(0008,1140)	SQ	ReferencedImageSequence	1
(0008,1150)	UI	ReferencedSOPClassUID	1
(0008,1155)	UI	ReferencedSOPInstanceUID	1
(0008,1199)	SQ	ReferencedSOPSequence	1
(0008,2111)	ST	DerivationDescription	1
(0010,0010)	PN	PatientName	1
(0010,0020)	LO	PatientID	1
(0010,0030)	DA	PatientBirthDate	1
(0010,0040)	CS	PatientSex	1
(0010,1010)	AS	PatientAge	1
(0010,1020)	DS	PatientSize	1
(0010,1030)	DS	PatientWeight	1
(0010,2160)	SH	EthnicGroup	1
(0010,21B0)	LT	AdditionalPatientHistory	1
(0010,4000)	LT	PatientComments	1
(0018,0010)	LO	ContrastBolusAgent	1
(0018,0015)	CS	BodyPartExamined	1
(0018,0020)	CS	ScanningSequence	1-n
(0018,0050)	DS	SliceThickness	1
(0018,0060)	DS	KVP	1
(0018,0080)	DS	RepetitionTime	1
(0018,0081)	DS	EchoTime	1
(0018,0086)	IS	EchoNumbers	1-n
(0018,0087)	DS	MagneticFieldStrength	1
(0018,0088)	DS	SpacingBetweenSlices	1
(0018,1000)	LO	DeviceSerialNumber	1
(0018,1020)	LO	SoftwareVersions	1-n
(0018,1030)	LO	ProtocolName	1
(0018,1063)	DS	FrameTime	1
(0018,1078)	DT	RadiopharmaceuticalStartDateTime	1
(0018,1088)	IS	HeartRate	1
(0018,1150)	IS	ExposureTime	1
(0018,1151)	IS	XRayTubeCurrent	1
(0018,1164)	DS	ImagerPixelSpacing	2
(0018,1310)	US	AcquisitionMatrix	4
(0018,5100)	CS	PatientPosition	1
(0018,5101)	CS	ViewPosition	1
(0018,6011)	SQ	SequenceOfUltrasoundRegions	1
(0018,6018)	UL	RegionLocationMinX0	1
(0018,602C)	FD	PhysicalDeltaX	1
(0018,602E)	FD	PhysicalDeltaY	1
(0018,9004)	CS	ContentQualification	1
(0018,9073)	FD	AcquisitionDuration	1
(0018,9074)	DT	FrameAcquisitionDateTime	1
(0018,9087)	FD	DiffusionBValue	1
(0018,9219)	SS	TagAngleSecondAxis	1
(0020,000D)	UI	StudyInstanceUID	1
(0020,000E)	UI	SeriesInstanceUID	1
(0020,0010)	SH	StudyID	1
(0020,0011)	IS	SeriesNumber	1
(0020,0012)	IS	AcquisitionNumber	1
(0020,0013)	IS	InstanceNumber	1
(0020,0020)	CS	PatientOrientation	2
(0020,0030)	DS	ImagePosition	3
(0020,0032)	DS	ImagePositionPatient	3
(0020,0035)	DS	ImageOrientation	6
(0020,0037)	DS	ImageOrientationPatient	6
(0020,0052)	UI	FrameOfReferenceUID	1
(0020,1041)	DS	SliceLocation	1
(0020,1206)	IS	NumberOfStudyRelatedSeries	1
(0020,1208)	IS	NumberOfStudyRelatedInstances	1
(0020,4000)	LT	ImageComments	1
(0020,9157)	UL	DimensionIndexValues	1-n
(0028,0002)	US	SamplesPerPixel	1
(0028,0004)	CS	PhotometricInterpretation	1
(0028,0005)	US	ImageDimensions	1
(0028,0006)	US	PlanarConfiguration	1
(0028,0008)	IS	NumberOfFrames	1
(0028,0009)	AT	FrameIncrementPointer	1-n
(0028,0010)	US	Rows	1
(0028,0011)	US	Columns	1
(0028,0030)	DS	PixelSpacing	2
(0028,0034)	IS	PixelAspectRatio	2
(0028,0040)	CS	ImageFormat	1
(0028,0060)	CS	CompressionCode	1
(0028,0100)	US	BitsAllocated	1
(0028,0101)	US	BitsStored	1
(0028,0102)	US	HighBit	1
(0028,0103)	US	PixelRepresentation	1
(0028,0106)	US	SmallestImagePixelValue	1
(0028,0107)	US	LargestImagePixelValue	1
(0028,0120)	US	PixelPaddingValue	1
(0028,0301)	CS	BurnedInAnnotation	1
(0028,1050)	DS	WindowCenter	1-n
(0028,1051)	DS	WindowWidth	1-n
(0028,1052)	DS	RescaleIntercept	1
(0028,1053)	DS	RescaleSlope	1
(0028,1054)	LO	RescaleType	1
(0028,1101)	US	RedPaletteColorLookupTableDescriptor	3
(0028,1201)	OW	RedPaletteColorLookupTableData	1
(0028,2110)	CS	LossyImageCompression	1
(0028,3002)	US	LUTDescriptor	3
(0028,3006)	US	LUTData	1-n
(0032,1060)	LO	RequestedProcedureDescription	1
(0032,4000)	LT	StudyComments	1
(0040,0244)	DA	PerformedProcedureStepStartDate	1
(0040,0253)	SH	PerformedProcedureStepID	1
(0040,0260)	SQ	PerformedProtocolCodeSequence	1
(0040,0275)	SQ	RequestAttributesSequence	1
(0040,1001)	SH	RequestedProcedureID	1
(0040,9096)	SQ	RealWorldValueMappingSequence	1
(0040,A040)	CS	ValueType	1
(0040,A160)	UT	TextValue	1
(0040,A730)	SQ	ContentSequence	1
(0042,0011)	OB	EncapsulatedDocument	1
(0054,0081)	US	NumberOfSlices	1
(0054,1001)	CS	Units	1
(0066,0016)	OF	PointCoordinatesData	1
(0070,0022)	FL	GraphicData	2-n
(0088,0200)	SQ	IconImageSequence	1
(7FE0,0008)	OF	FloatPixelData	1
(7FE0,0009)	OD	DoubleFloatPixelData	1
(7FE0,0010)	OW	PixelData	1
(FFFE,E000)	NA	Item	1
(FFFE,E00D)	NA	ItemDelimitationItem	1
(FFFE,E0DD)	NA	SequenceDelimitationItem	1
`
