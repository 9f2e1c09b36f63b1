package rw

import "fmt"

// SectionType is the 32-bit tag at the start of every section header.
type SectionType uint32

const (
	TypeStruct                          SectionType = 0x00000001
	TypeString                          SectionType = 0x00000002
	TypeExtension                       SectionType = 0x00000003
	TypeCamera                          SectionType = 0x00000005
	TypeTexture                         SectionType = 0x00000006
	TypeMaterial                        SectionType = 0x00000007
	TypeMaterialList                    SectionType = 0x00000008
	TypeAtomicSection                   SectionType = 0x00000009
	TypePlaneSection                    SectionType = 0x0000000A
	TypeWorld                           SectionType = 0x0000000B
	TypeSpline                          SectionType = 0x0000000C
	TypeMatrix                          SectionType = 0x0000000D
	TypeFrameList                       SectionType = 0x0000000E
	TypeGeometry                        SectionType = 0x0000000F
	TypeClump                           SectionType = 0x00000010
	TypeLight                           SectionType = 0x00000012
	TypeUnicodeString                   SectionType = 0x00000013
	TypeAtomic                          SectionType = 0x00000014
	TypeRaster                          SectionType = 0x00000015
	TypeTextureDictionary               SectionType = 0x00000016
	TypeAnimationDatabase               SectionType = 0x00000017
	TypeImage                           SectionType = 0x00000018
	TypeSkinAnimation                   SectionType = 0x00000019
	TypeGeometryList                    SectionType = 0x0000001A
	TypeAnimAnimation                   SectionType = 0x0000001B
	TypeTeam                            SectionType = 0x0000001C
	TypeCrowd                           SectionType = 0x0000001D
	TypeDeltaMorphAnimation             SectionType = 0x0000001E
	TypeRightToRender                   SectionType = 0x0000001F
	TypeMultiTextureEffectNative        SectionType = 0x00000020
	TypeMultiTextureEffectDictionary    SectionType = 0x00000021
	TypeTeamDictionary                  SectionType = 0x00000022
	TypePlatformIndependentTexDict      SectionType = 0x00000023
	TypeTableOfContents                 SectionType = 0x00000024
	TypeParticleStandardGlobalData      SectionType = 0x00000025
	TypeAltPipe                         SectionType = 0x00000026
	TypePlatformIndependentPeds         SectionType = 0x00000027
	TypePatchMesh                       SectionType = 0x00000028
	TypeChunkGroupStart                 SectionType = 0x00000029
	TypeChunkGroupEnd                   SectionType = 0x0000002A
	TypeUVAnimationDictionary           SectionType = 0x0000002B
	TypeCollTree                        SectionType = 0x0000002C
	TypeMetricsPLG                      SectionType = 0x00000101
	TypeSplinePLG                       SectionType = 0x00000102
	TypeStereoPLG                       SectionType = 0x00000103
	TypeVRMLPLG                         SectionType = 0x00000104
	TypeMorphPLG                        SectionType = 0x00000105
	TypePVSPLG                          SectionType = 0x00000106
	TypeMemoryLeakPLG                   SectionType = 0x00000107
	TypeAnimationPLG                    SectionType = 0x00000108
	TypeGlossPLG                        SectionType = 0x00000109
	TypeLogoPLG                         SectionType = 0x0000010A
	TypeMemoryInfoPLG                   SectionType = 0x0000010B
	TypeRandomPLG                       SectionType = 0x0000010C
	TypePNGImagePLG                     SectionType = 0x0000010D
	TypeBonePLG                         SectionType = 0x0000010E
	TypeVRMLAnimPLG                     SectionType = 0x0000010F
	TypeSkyMipmapVal                    SectionType = 0x00000110
	TypeMRMPLG                          SectionType = 0x00000111
	TypeLODAtomicPLG                    SectionType = 0x00000112
	TypeMEPLG                           SectionType = 0x00000113
	TypeLightmapPLG                     SectionType = 0x00000114
	TypeRefinePLG                       SectionType = 0x00000115
	TypeSkinPLG                         SectionType = 0x00000116
	TypeLabelPLG                        SectionType = 0x00000117
	TypeParticlesPLG                    SectionType = 0x00000118
	TypeGeomTXPLG                       SectionType = 0x00000119
	TypeSynthCorePLG                    SectionType = 0x0000011A
	TypeSTQPPPLG                        SectionType = 0x0000011B
	TypePartPPPLG                       SectionType = 0x0000011C
	TypeCollisionPLG                    SectionType = 0x0000011D
	TypeHAnimPLG                        SectionType = 0x0000011E
	TypeUserDataPLG                     SectionType = 0x0000011F
	TypeMaterialEffectsPLG              SectionType = 0x00000120
	TypeParticleSystemPLG               SectionType = 0x00000121
	TypeDeltaMorphPLG                   SectionType = 0x00000122
	TypePatchPLG                        SectionType = 0x00000123
	TypeTeamPLG                         SectionType = 0x00000124
	TypeCrowdPPPLG                      SectionType = 0x00000125
	TypeMipSplitPLG                     SectionType = 0x00000126
	TypeAnisotropyPLG                   SectionType = 0x00000127
	TypeGCNMaterialPLG                  SectionType = 0x00000129
	TypeGeometricPVSPLG                 SectionType = 0x0000012A
	TypeXBOXMaterialPLG                 SectionType = 0x0000012B
	TypeMultiTexturePLG                 SectionType = 0x0000012C
	TypeChainPLG                        SectionType = 0x0000012D
	TypeToonPLG                         SectionType = 0x0000012E
	TypePTankPLG                        SectionType = 0x0000012F
	TypeParticleStandardPLG             SectionType = 0x00000130
	TypePDSPLG                          SectionType = 0x00000131
	TypePrtAdvPLG                       SectionType = 0x00000132
	TypeNormalMapPLG                    SectionType = 0x00000133
	TypeADCPLG                          SectionType = 0x00000134
	TypeUVAnimationPLG                  SectionType = 0x00000135
	TypeCharacterSetPLG                 SectionType = 0x00000180
	TypeNOHSWorldPLG                    SectionType = 0x00000181
	TypeImportUtilPLG                   SectionType = 0x00000182
	TypeSlerpPLG                        SectionType = 0x00000183
	TypeOptimPLG                        SectionType = 0x00000184
	TypeTLWorldPLG                      SectionType = 0x00000185
	TypeDatabasePLG                     SectionType = 0x00000186
	TypeRaytracePLG                     SectionType = 0x00000187
	TypeRayPLG                          SectionType = 0x00000188
	TypeLibraryPLG                      SectionType = 0x00000189
	Type2DPLG                           SectionType = 0x00000190
	TypeTileRenderPLG                   SectionType = 0x00000191
	TypeJPEGImagePLG                    SectionType = 0x00000192
	TypeTGAImagePLG                     SectionType = 0x00000193
	TypeGIFImagePLG                     SectionType = 0x00000194
	TypeQuatPLG                         SectionType = 0x00000195
	TypeSplinePVSPLG                    SectionType = 0x00000196
	TypeMipmapPLG                       SectionType = 0x00000197
	TypeMipmapKPLG                      SectionType = 0x00000198
	Type2DFont                          SectionType = 0x00000199
	TypeIntersectionPLG                 SectionType = 0x0000019A
	TypeTIFFImagePLG                    SectionType = 0x0000019B
	TypePickPLG                         SectionType = 0x0000019C
	TypeBMPImagePLG                     SectionType = 0x0000019D
	TypeRASImagePLG                     SectionType = 0x0000019E
	TypeSkinFXPLG                       SectionType = 0x0000019F
	TypeVCATPLG                         SectionType = 0x000001A0
	Type2DPath                          SectionType = 0x000001A1
	Type2DBrush                         SectionType = 0x000001A2
	Type2DObject                        SectionType = 0x000001A3
	Type2DShape                         SectionType = 0x000001A4
	Type2DScene                         SectionType = 0x000001A5
	Type2DPickRegion                    SectionType = 0x000001A6
	Type2DObjectString                  SectionType = 0x000001A7
	Type2DAnimationPLG                  SectionType = 0x000001A8
	Type2DAnimation                     SectionType = 0x000001A9
	Type2DKeyframe                      SectionType = 0x000001B0
	Type2DMaestro                       SectionType = 0x000001B1
	TypeBarycentric                     SectionType = 0x000001B2
	TypePlatformIndependentTexDictTK    SectionType = 0x000001B3
	TypeTOCTK                           SectionType = 0x000001B4
	TypeTPLTK                           SectionType = 0x000001B5
	TypeAltPipeTK                       SectionType = 0x000001B6
	TypeAnimationTK                     SectionType = 0x000001B7
	TypeSkinSplitToolkit                SectionType = 0x000001B8
	TypeCompressedKeyTK                 SectionType = 0x000001B9
	TypeGeometryConditioningPLG         SectionType = 0x000001BA
	TypeWingPLG                         SectionType = 0x000001BB
	TypeGenericPipelineTK               SectionType = 0x000001BC
	TypeLightmapConversionTK            SectionType = 0x000001BD
	TypeFilesystemPLG                   SectionType = 0x000001BE
	TypeDictionaryTK                    SectionType = 0x000001BF
	TypeUVAnimationLinear               SectionType = 0x000001C0
	TypeUVAnimationParameter            SectionType = 0x000001C1
	TypeBinMeshPLG                      SectionType = 0x0000050E
	TypeNativeDataPLG                   SectionType = 0x00000510
	TypeZModelerLock                    SectionType = 0x0000F21E
	TypeAtomicVisibilityDistance        SectionType = 0x0253F200
	TypeClumpVisibilityDistance         SectionType = 0x0253F201
	TypeFrameVisibilityDistance         SectionType = 0x0253F202
	TypePipelineSet                     SectionType = 0x0253F2F3
	TypeTexDictionaryLink               SectionType = 0x0253F2F5
	TypeSpecularMaterial                SectionType = 0x0253F2F6
	Type2dEffect                        SectionType = 0x0253F2F8
	TypeExtraVertColour                 SectionType = 0x0253F2F9
	TypeCollisionModel                  SectionType = 0x0253F2FA
	TypeGTAHAnim                        SectionType = 0x0253F2FB
	TypeReflectionMaterial              SectionType = 0x0253F2FC
	TypeBreakable                       SectionType = 0x0253F2FD
	TypeNodeName                        SectionType = 0x0253F2FE
)

var sectionNames = map[SectionType]string{
	TypeStruct:                       "Struct",
	TypeString:                       "String",
	TypeExtension:                    "Extension",
	TypeCamera:                       "Camera",
	TypeTexture:                      "Texture",
	TypeMaterial:                     "Material",
	TypeMaterialList:                 "MaterialList",
	TypeAtomicSection:                "AtomicSection",
	TypePlaneSection:                 "PlaneSection",
	TypeWorld:                        "World",
	TypeSpline:                       "Spline",
	TypeMatrix:                       "Matrix",
	TypeFrameList:                    "FrameList",
	TypeGeometry:                     "Geometry",
	TypeClump:                        "Clump",
	TypeLight:                        "Light",
	TypeUnicodeString:                "UnicodeString",
	TypeAtomic:                       "Atomic",
	TypeRaster:                       "Raster",
	TypeTextureDictionary:            "TextureDictionary",
	TypeAnimationDatabase:            "AnimationDatabase",
	TypeImage:                        "Image",
	TypeSkinAnimation:                "SkinAnimation",
	TypeGeometryList:                 "GeometryList",
	TypeAnimAnimation:                "AnimAnimation",
	TypeTeam:                         "Team",
	TypeCrowd:                        "Crowd",
	TypeDeltaMorphAnimation:          "DeltaMorphAnimation",
	TypeRightToRender:                "RightToRender",
	TypeMultiTextureEffectNative:     "MultiTextureEffectNative",
	TypeMultiTextureEffectDictionary: "MultiTextureEffectDictionary",
	TypeTeamDictionary:               "TeamDictionary",
	TypePlatformIndependentTexDict:   "PlatformIndependentTextureDictionary",
	TypeTableOfContents:              "TableOfContents",
	TypeParticleStandardGlobalData:   "ParticleStandardGlobalData",
	TypeAltPipe:                      "AltPipe",
	TypePlatformIndependentPeds:      "PlatformIndependentPeds",
	TypePatchMesh:                    "PatchMesh",
	TypeChunkGroupStart:              "ChunkGroupStart",
	TypeChunkGroupEnd:                "ChunkGroupEnd",
	TypeUVAnimationDictionary:        "UVAnimationDictionary",
	TypeCollTree:                     "CollTree",
	TypeMetricsPLG:                   "MetricsPLG",
	TypeSplinePLG:                    "SplinePLG",
	TypeStereoPLG:                    "StereoPLG",
	TypeVRMLPLG:                      "VRMLPLG",
	TypeMorphPLG:                     "MorphPLG",
	TypePVSPLG:                       "PVSPLG",
	TypeMemoryLeakPLG:                "MemoryLeakPLG",
	TypeAnimationPLG:                 "AnimationPLG",
	TypeGlossPLG:                     "GlossPLG",
	TypeLogoPLG:                      "LogoPLG",
	TypeMemoryInfoPLG:                "MemoryInfoPLG",
	TypeRandomPLG:                    "RandomPLG",
	TypePNGImagePLG:                  "PNGImagePLG",
	TypeBonePLG:                      "BonePLG",
	TypeVRMLAnimPLG:                  "VRMLAnimPLG",
	TypeSkyMipmapVal:                 "SkyMipmapVal",
	TypeMRMPLG:                       "MRMPLG",
	TypeLODAtomicPLG:                 "LODAtomicPLG",
	TypeMEPLG:                        "MEPLG",
	TypeLightmapPLG:                  "LightmapPLG",
	TypeRefinePLG:                    "RefinePLG",
	TypeSkinPLG:                      "SkinPLG",
	TypeLabelPLG:                     "LabelPLG",
	TypeParticlesPLG:                 "ParticlesPLG",
	TypeGeomTXPLG:                    "GeomTXPLG",
	TypeSynthCorePLG:                 "SynthCorePLG",
	TypeSTQPPPLG:                     "STQPPPLG",
	TypePartPPPLG:                    "PartPPPLG",
	TypeCollisionPLG:                 "CollisionPLG",
	TypeHAnimPLG:                     "HAnimPLG",
	TypeUserDataPLG:                  "UserDataPLG",
	TypeMaterialEffectsPLG:           "MaterialEffectsPLG",
	TypeParticleSystemPLG:            "ParticleSystemPLG",
	TypeDeltaMorphPLG:                "DeltaMorphPLG",
	TypePatchPLG:                     "PatchPLG",
	TypeTeamPLG:                      "TeamPLG",
	TypeCrowdPPPLG:                   "CrowdPPPLG",
	TypeMipSplitPLG:                  "MipSplitPLG",
	TypeAnisotropyPLG:                "AnisotropyPLG",
	TypeGCNMaterialPLG:               "GCNMaterialPLG",
	TypeGeometricPVSPLG:              "GeometricPVSPLG",
	TypeXBOXMaterialPLG:              "XBOXMaterialPLG",
	TypeMultiTexturePLG:              "MultiTexturePLG",
	TypeChainPLG:                     "ChainPLG",
	TypeToonPLG:                      "ToonPLG",
	TypePTankPLG:                     "PTankPLG",
	TypeParticleStandardPLG:          "ParticleStandardPLG",
	TypePDSPLG:                       "PDSPLG",
	TypePrtAdvPLG:                    "PrtAdvPLG",
	TypeNormalMapPLG:                 "NormalMapPLG",
	TypeADCPLG:                       "ADCPLG",
	TypeUVAnimationPLG:               "UVAnimationPLG",
	TypeCharacterSetPLG:              "CharacterSetPLG",
	TypeNOHSWorldPLG:                 "NOHSWorldPLG",
	TypeImportUtilPLG:                "ImportUtilPLG",
	TypeSlerpPLG:                     "SlerpPLG",
	TypeOptimPLG:                     "OptimPLG",
	TypeTLWorldPLG:                   "TLWorldPLG",
	TypeDatabasePLG:                  "DatabasePLG",
	TypeRaytracePLG:                  "RaytracePLG",
	TypeRayPLG:                       "RayPLG",
	TypeLibraryPLG:                   "LibraryPLG",
	Type2DPLG:                        "2DPLG",
	TypeTileRenderPLG:                "TileRenderPLG",
	TypeJPEGImagePLG:                 "JPEGImagePLG",
	TypeTGAImagePLG:                  "TGAImagePLG",
	TypeGIFImagePLG:                  "GIFImagePLG",
	TypeQuatPLG:                      "QuatPLG",
	TypeSplinePVSPLG:                 "SplinePVSPLG",
	TypeMipmapPLG:                    "MipmapPLG",
	TypeMipmapKPLG:                   "MipmapKPLG",
	Type2DFont:                       "2DFont",
	TypeIntersectionPLG:              "IntersectionPLG",
	TypeTIFFImagePLG:                 "TIFFImagePLG",
	TypePickPLG:                      "PickPLG",
	TypeBMPImagePLG:                  "BMPImagePLG",
	TypeRASImagePLG:                  "RASImagePLG",
	TypeSkinFXPLG:                    "SkinFXPLG",
	TypeVCATPLG:                      "VCATPLG",
	Type2DPath:                       "2DPath",
	Type2DBrush:                      "2DBrush",
	Type2DObject:                     "2DObject",
	Type2DShape:                      "2DShape",
	Type2DScene:                      "2DScene",
	Type2DPickRegion:                 "2DPickRegion",
	Type2DObjectString:               "2DObjectString",
	Type2DAnimationPLG:               "2DAnimationPLG",
	Type2DAnimation:                  "2DAnimation",
	Type2DKeyframe:                   "2DKeyframe",
	Type2DMaestro:                    "2DMaestro",
	TypeBarycentric:                  "Barycentric",
	TypePlatformIndependentTexDictTK: "PlatformIndependentTextureDictionaryTK",
	TypeTOCTK:                        "TOCTK",
	TypeTPLTK:                        "TPLTK",
	TypeAltPipeTK:                    "AltPipeTK",
	TypeAnimationTK:                  "AnimationTK",
	TypeSkinSplitToolkit:             "SkinSplitToolkit",
	TypeCompressedKeyTK:              "CompressedKeyTK",
	TypeGeometryConditioningPLG:      "GeometryConditioningPLG",
	TypeWingPLG:                      "WingPLG",
	TypeGenericPipelineTK:            "GenericPipelineTK",
	TypeLightmapConversionTK:         "LightmapConversionTK",
	TypeFilesystemPLG:                "FilesystemPLG",
	TypeDictionaryTK:                 "DictionaryTK",
	TypeUVAnimationLinear:            "UVAnimationLinear",
	TypeUVAnimationParameter:         "UVAnimationParameter",
	TypeBinMeshPLG:                   "BinMeshPLG",
	TypeNativeDataPLG:                "NativeDataPLG",
	TypeZModelerLock:                 "ZModelerLock",
	TypeAtomicVisibilityDistance:     "AtomicVisibilityDistance",
	TypeClumpVisibilityDistance:      "ClumpVisibilityDistance",
	TypeFrameVisibilityDistance:      "FrameVisibilityDistance",
	TypePipelineSet:                  "PipelineSet",
	TypeTexDictionaryLink:            "TexDictionaryLink",
	TypeSpecularMaterial:             "SpecularMaterial",
	Type2dEffect:                     "2dEffect",
	TypeExtraVertColour:              "ExtraVertColour",
	TypeCollisionModel:               "CollisionModel",
	TypeGTAHAnim:                     "GTAHAnim",
	TypeReflectionMaterial:           "ReflectionMaterial",
	TypeBreakable:                    "Breakable",
	TypeNodeName:                     "NodeName",
}

// Known reports whether t is in the tag table.
func (t SectionType) Known() bool {
	_, ok := sectionNames[t]
	return ok
}

func (t SectionType) String() string {
	if name, ok := sectionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SectionType(0x%X)", uint32(t))
}

// container reports whether a section of this type holds child sections.
func (t SectionType) container() bool {
	switch t {
	case TypeClump, TypeGeometryList, TypeFrameList, TypeMaterialList,
		TypeExtension, TypeMaterial, TypeTexture, TypeGeometry,
		TypeAtomic, TypeRaster, TypeTextureDictionary:
		return true
	}
	return false
}

// Version thresholds gating optional fields. Values are decoded versions.
const (
	VersionMaterialLighting = 0x30400 // material lighting present when version > this
	VersionClumpCounts      = 0x33000 // clump light/camera counts when version > this
	VersionGeometryLighting = 0x34000 // geometry lighting present when version < this
	VersionDictionaryDevice = 0x36000 // texture dictionary u16 count + device id from here
)

// PlatformD3D8 is the only raster platform id decoded.
const PlatformD3D8 = 8

// GeometryFormat holds the geometry flag bits (texture-set count masked out).
type GeometryFormat uint32

const (
	GeometryTriStrip              GeometryFormat = 0x00000001
	GeometryPositions             GeometryFormat = 0x00000002
	GeometryTextured              GeometryFormat = 0x00000004
	GeometryPrelit                GeometryFormat = 0x00000008
	GeometryNormals               GeometryFormat = 0x00000010
	GeometryLight                 GeometryFormat = 0x00000020
	GeometryModulateMaterialColor GeometryFormat = 0x00000040
	GeometryTextured2             GeometryFormat = 0x00000080
	GeometryNative                GeometryFormat = 0x01000000
)

// Has reports whether all bits of flag are set.
func (f GeometryFormat) Has(flag GeometryFormat) bool {
	return f&flag == flag
}

// TextureFiltering is the sampler filter mode stored in texture and raster structs.
type TextureFiltering uint8

const (
	FilterNone TextureFiltering = iota
	FilterNearest
	FilterLinear
	FilterMipNearest
	FilterMipLinear
	FilterLinearMipNearest
	FilterLinearMipLinear
)

func (f TextureFiltering) valid() bool { return f <= FilterLinearMipLinear }

// TextureAddressing is the per-axis wrap mode.
type TextureAddressing uint8

const (
	AddressNone TextureAddressing = iota
	AddressWrap
	AddressMirror
	AddressClamp
	AddressBorder
)

func (a TextureAddressing) valid() bool { return a <= AddressBorder }

// RasterFormat is the raw raster format word.
type RasterFormat uint32

// RasterScheme is the pixel layout nibble of a RasterFormat.
type RasterScheme uint32

const (
	Scheme1555 RasterScheme = 0x1 // also DXT1 with alpha
	Scheme565  RasterScheme = 0x2 // also DXT1 without alpha
	Scheme4444 RasterScheme = 0x3 // also DXT3
	SchemeLUM8 RasterScheme = 0x4
	Scheme8888 RasterScheme = 0x5
	Scheme888  RasterScheme = 0x6
	Scheme555  RasterScheme = 0xA
)

const (
	rasterExtAutoMipmap = 0x1000
	rasterExtPal8       = 0x2000
	rasterExtPal4       = 0x4000
	rasterExtMipmap     = 0x8000
)

// Scheme returns the pixel layout and whether it is a recognized value.
func (f RasterFormat) Scheme() (RasterScheme, bool) {
	s := RasterScheme(f>>8) & 0xF
	switch s {
	case Scheme1555, Scheme565, Scheme4444, SchemeLUM8, Scheme8888, Scheme888, Scheme555:
		return s, true
	}
	return s, false
}

// PaletteSize returns 256, 16, or 0 colors.
func (f RasterFormat) PaletteSize() int {
	switch {
	case f&rasterExtPal8 != 0:
		return 256
	case f&rasterExtPal4 != 0:
		return 16
	}
	return 0
}

func (f RasterFormat) AutoMipmap() bool { return f&rasterExtAutoMipmap != 0 }
func (f RasterFormat) HasMipmaps() bool { return f&rasterExtMipmap != 0 }
